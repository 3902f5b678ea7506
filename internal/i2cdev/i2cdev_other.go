//go:build !linux || baremetal

package i2cdev

import "lightcode-go/errcode"

// Bus is unavailable off Linux.
type Bus struct{}

// Open always fails on this platform.
func Open(path string) (*Bus, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "i2cdev.open", Msg: "i2c-dev requires linux"}
}

func (b *Bus) Path() string { return "" }

func (b *Bus) Tx(addr uint16, w, r []byte) error { return errcode.Unsupported }

func (b *Bus) Close() error { return nil }
