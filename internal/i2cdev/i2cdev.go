// Package i2cdev exposes a Linux /dev/i2c-N adapter as a drivers.I2C.
package i2cdev

import (
	"lightcode-go/errcode"

	"tinygo.org/x/drivers"
)

// ErrOddAddress is returned by the Wire8 view for an 8-bit address with the
// read bit set; the Linux adapter always generates that bit itself.
var ErrOddAddress = &errcode.E{C: errcode.InvalidArgument, Op: "i2cdev.wire8", Msg: "8-bit address must be even"}

// wire8 turns 8-bit wire addresses (address byte including the R/W bit)
// into the 7-bit addresses the kernel expects.
type wire8 struct{ bus drivers.I2C }

func (w wire8) Tx(addr uint16, wr, rd []byte) error {
	if addr&1 != 0 {
		return ErrOddAddress
	}
	return w.bus.Tx(addr>>1, wr, rd)
}

// Wire8 wraps bus so callers can pass the first byte on the wire as the
// address. Chips such as the BP5758D use that byte as a command and have no
// 7-bit address of their own.
func Wire8(bus drivers.I2C) drivers.I2C { return wire8{bus: bus} }
