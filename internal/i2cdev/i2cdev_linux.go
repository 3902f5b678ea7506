//go:build linux && !baremetal

package i2cdev

import (
	"runtime"
	"sync"
	"unsafe"

	"lightcode-go/errcode"

	"golang.org/x/sys/unix"
)

// From <linux/i2c-dev.h> and <linux/i2c.h>.
const (
	i2cRDWR = 0x0707
	i2cMRD  = 0x0001
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an open i2c-dev adapter. Tx is safe for concurrent use.
type Bus struct {
	mu   sync.Mutex
	fd   int
	path string
}

// Open opens an adapter such as /dev/i2c-1.
func Open(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &errcode.E{C: errcode.I2C, Op: "i2cdev.open", Msg: path, Err: err}
	}
	return &Bus{fd: fd, path: path}, nil
}

func (b *Bus) Path() string { return b.path }

// Tx writes w and then reads into r (repeated start) as one combined
// transaction. Either may be empty. addr is a 7-bit address.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	var msgs [2]i2cMsg
	n := 0
	if len(w) > 0 {
		msgs[n] = i2cMsg{addr: addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))}
		n++
	}
	if len(r) > 0 {
		msgs[n] = i2cMsg{addr: addr, flags: i2cMRD, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))}
		n++
	}
	if n == 0 {
		// Zero-length write: address-only probe.
		msgs[0] = i2cMsg{addr: addr}
		n = 1
	}
	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(n)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return &errcode.E{C: errcode.I2C, Op: "i2cdev.tx", Msg: "closed"}
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), i2cRDWR, uintptr(unsafe.Pointer(&data)))
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	runtime.KeepAlive(&msgs)
	if errno != 0 {
		return &errcode.E{C: errcode.I2C, Op: "i2cdev.tx", Err: errno}
	}
	return nil
}

// Close releases the file descriptor.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	return err
}
