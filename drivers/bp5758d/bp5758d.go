// Package bp5758d provides a driver for the BP5758D 5-channel constant-current
// LED controller.
//
// The chip speaks a write-only, I2C-like protocol: the first byte on the wire
// is a command byte (written here as the "address") made of a fixed base, a
// sleep bit and a register sub-address, followed by register data that the
// chip auto-increments through. There is no read-back path.
//
//	d, err := bp5758d.New(bus, bp5758d.Config{
//		Mapping:    [5]uint8{2, 1, 3, 4, 5}, // r,g,b,c,w -> OUT2,OUT1,OUT3,OUT4,OUT5
//		MaxCurrent: [5]uint8{14, 14, 14, 30, 30},
//	})
//	defer d.Close() // puts the chip to sleep if it is awake
//	_ = d.SetRGBCW(1023, 0, 0, 0, 0)
//
// Arguments are validated before any bus activity, so ErrInvalidArg never
// leaves the chip half-updated. A transport failure can: the chip may have
// latched the first bytes of a transaction and not the rest, and nothing is
// rolled back.
//
// A Device is not safe for concurrent use; wrap it in a single owner (see
// services/light) when several goroutines need it.
package bp5758d

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"

	"lightcode-go/errcode"

	"tinygo.org/x/drivers"
)

// ErrInvalidArg is returned for values or configuration outside the chip's
// documented ranges.
var ErrInvalidArg error = errcode.InvalidArgument

// Config describes how the chip is wired. All fields except Logger are
// required.
type Config struct {
	// Mapping gives the physical output (1..5) driving the red, green, blue,
	// cold-white and warm-white channels respectively.
	Mapping [NumChannels]uint8
	// MaxCurrent holds the per-output current setting (0..90, chip units) in
	// OUT1..OUT5 order.
	MaxCurrent [NumChannels]uint8
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Device is a BP5758D on a two-wire bus.
type Device struct {
	bus drivers.I2C
	log *slog.Logger

	sleeping   bool
	mapping    [NumChannels]uint8
	maxCurrent [NumChannels]uint8 // already in wire format

	// Fixed buffers to avoid per-call heap allocations. gray and ctl are
	// separate because a grayscale write may be preceded by a wake.
	gray [2 * NumChannels]byte
	ctl  [1 + NumChannels]byte
	one  [2]byte
}

// New validates cfg and returns a Device. It does not touch the bus; the
// chip is assumed to be asleep, which is its power-on state.
//
// Mapping entries above 5 are rejected. A zero entry is accepted here but
// makes SetRGBCW fail with ErrInvalidArg.
func New(bus drivers.I2C, cfg Config) (*Device, error) {
	for _, m := range cfg.Mapping {
		if m > NumChannels {
			return nil, ErrInvalidArg
		}
	}
	cur, err := transformCurrents(cfg.MaxCurrent)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Device{
		bus:        bus,
		log:        log,
		sleeping:   true,
		mapping:    cfg.Mapping,
		maxCurrent: cur,
	}, nil
}

// With constructs a Device, runs fn and closes the device afterwards, so the
// chip is put back to sleep however fn returns.
func With(bus drivers.I2C, cfg Config, fn func(*Device) error) error {
	d, err := New(bus, cfg)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

// Introspection.
func (d *Device) Sleeping() bool                 { return d.sleeping }
func (d *Device) Mapping() [NumChannels]uint8    { return d.mapping }
func (d *Device) MaxCurrent() [NumChannels]uint8 { return d.maxCurrent }

// SetChannel sets the grayscale value (0..1023) of one output. A sleeping
// chip is woken first.
func (d *Device) SetChannel(ch Channel, value uint16) error {
	if !ch.Valid() || !grayscaleValid(value) {
		return ErrInvalidArg
	}
	if d.sleeping {
		if err := d.SetSleep(false); err != nil {
			return err
		}
	}
	d.one[0], d.one[1] = EncodeGrayscale(value)
	return d.write(addr(sleepDisable, grayscaleSub[ch]), d.one[:2])
}

// SetRGBCW sets all five channels in a single transaction. Values are given
// in logical order and placed at the physical output chosen by the mapping.
// A sleeping chip is woken first.
func (d *Device) SetRGBCW(r, g, b, c, w uint16) error {
	values := [NumChannels]uint16{r, g, b, c, w}
	d.gray = [2 * NumChannels]byte{}
	for i, v := range values {
		if !grayscaleValid(v) {
			return ErrInvalidArg
		}
		slot := int(d.mapping[i]) - 1
		if slot < 0 {
			return ErrInvalidArg
		}
		d.gray[2*slot], d.gray[2*slot+1] = EncodeGrayscale(v)
	}
	if d.sleeping {
		if err := d.SetSleep(false); err != nil {
			return err
		}
	}
	return d.write(addr(sleepDisable, subOut1Gray), d.gray[:])
}

// SetSleep puts the chip to sleep or wakes it. Every call performs the bus
// writes for the requested state, even if the chip is already there.
//
// Sleeping clears all grayscale registers. Waking only re-enables outputs
// and restores current limits; grayscale must be set again afterwards.
func (d *Device) SetSleep(sleep bool) error {
	if sleep {
		if err := d.shutdown(); err != nil {
			return err
		}
		d.ctl = [1 + NumChannels]byte{outAllDisable}
		if err := d.write(addr(sleepEnable, subOutEnable), d.ctl[:]); err != nil {
			return err
		}
		d.sleeping = true
		return nil
	}
	d.ctl[0] = outAllEnable
	copy(d.ctl[1:], d.maxCurrent[:])
	if err := d.write(addr(sleepDisable, subOutEnable), d.ctl[:]); err != nil {
		return err
	}
	d.sleeping = false
	return nil
}

// SetCurrent changes one output's current limit (0..90). When the chip is
// awake the output-enable block is re-sent with the new limits; the odd
// per-channel sub-addresses are never addressed directly. When asleep the
// value is applied by the next wake. The stored limit only changes once the
// write succeeds.
func (d *Device) SetCurrent(ch Channel, value uint8) error {
	if !ch.Valid() {
		return ErrInvalidArg
	}
	t, err := TransformCurrent(value)
	if err != nil {
		return err
	}
	if d.sleeping {
		d.maxCurrent[ch] = t
		return nil
	}
	d.ctl[0] = outAllEnable
	copy(d.ctl[1:], d.maxCurrent[:])
	d.ctl[1+ch] = t
	if err := d.write(addr(sleepDisable, subOutEnable), d.ctl[:]); err != nil {
		return err
	}
	d.maxCurrent[ch] = t
	return nil
}

// Close puts an awake chip to sleep. A failure is logged, not returned:
// Close is meant for defer and there is nobody left to handle it.
func (d *Device) Close() error {
	if d.sleeping {
		return nil
	}
	if err := d.SetSleep(true); err != nil {
		d.log.Error("bp5758d: failed to set sleep on close", "err", err)
	}
	return nil
}

func (d *Device) shutdown() error {
	d.gray = [2 * NumChannels]byte{}
	return d.write(addr(sleepDisable, subOut1Gray), d.gray[:])
}

func (d *Device) write(a byte, data []byte) error {
	if d.log.Enabled(context.Background(), slog.LevelDebug) {
		d.log.Debug("bp5758d: write",
			"addr", "0x"+strconv.FormatUint(uint64(a), 16),
			"data", hex.EncodeToString(data))
	}
	if err := d.bus.Tx(uint16(a), data, nil); err != nil {
		return errcode.Wrap(errcode.I2C, "bp5758d.write", err)
	}
	return nil
}
