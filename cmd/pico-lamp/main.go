//go:build rp2040 || rp2350

// Command pico-lamp drives a BP5758D from a Pico's I2C0: it fades white up
// and down a few times, then puts the chip to sleep.
package main

import (
	"machine"
	"time"

	"lightcode-go/drivers/bp5758d"
	"lightcode-go/internal/i2cdev"
	"lightcode-go/x/ramp"
)

const (
	fadeTime  = 800 * time.Millisecond
	fadeSteps = 40
	cycles    = 3
)

func main() {
	// Give USB serial a moment so early output is not lost.
	time.Sleep(1500 * time.Millisecond)

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		println("[lamp] i2c configure:", err.Error())
		return
	}

	cfg := bp5758d.Config{
		Mapping:    [bp5758d.NumChannels]uint8{2, 1, 3, 4, 5},
		MaxCurrent: [bp5758d.NumChannels]uint8{14, 14, 14, 30, 30},
	}
	err := bp5758d.With(i2cdev.Wire8(i2c), cfg, func(d *bp5758d.Device) error {
		if err := d.SetSleep(false); err != nil {
			return err
		}
		println("[lamp] awake")
		for n := 0; n < cycles; n++ {
			if err := fade(d, 0, bp5758d.GrayscaleMax); err != nil {
				return err
			}
			if err := fade(d, bp5758d.GrayscaleMax, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		println("[lamp] error:", err.Error())
	}
	println("[lamp] sleeping")
	for {
		time.Sleep(time.Hour)
	}
}

// fade ramps both white channels from one level to another.
func fade(d *bp5758d.Device, from, to uint16) error {
	return ramp.Linear(from, to, bp5758d.GrayscaleMax, fadeTime, fadeSteps,
		func(dt time.Duration) bool { time.Sleep(dt); return true },
		func(lv uint16) error { return d.SetRGBCW(0, 0, 0, lv, lv) })
}
