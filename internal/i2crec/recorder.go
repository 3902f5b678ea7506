// Package i2crec provides a recording drivers.I2C used for dry runs and
// tests. It never talks to hardware.
package i2crec

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
)

// Write is one recorded transaction.
type Write struct {
	Addr uint16
	Data []byte
}

func (w Write) String() string {
	return fmt.Sprintf("addr=0x%02X data=[%s]", w.Addr, hex.EncodeToString(w.Data))
}

// Recorder records every Tx. The zero value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	writes []Write
	reads  int

	failAt  int // 1-based transaction index to fail; 0 = never
	failAll bool
	failErr error

	echo io.Writer
}

// New returns a Recorder that echoes each write to echo when it is non-nil.
func New(echo io.Writer) *Recorder { return &Recorder{echo: echo} }

// FailAt makes the n-th transaction since creation or Reset (1-based) fail
// with err. The failed write is still recorded.
func (r *Recorder) FailAt(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAt = n
	r.failErr = err
}

// FailAll makes every following transaction fail with err; nil clears it.
func (r *Recorder) FailAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAll = err != nil
	r.failErr = err
}

// Tx implements drivers.I2C. Reads are counted but return zeroes.
func (r *Recorder) Tx(addr uint16, w, rd []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(w) > 0 || rd == nil {
		rec := Write{Addr: addr, Data: append([]byte(nil), w...)}
		r.writes = append(r.writes, rec)
		if r.echo != nil {
			fmt.Fprintln(r.echo, rec.String())
		}
	}
	if len(rd) > 0 {
		r.reads++
		clear(rd)
	}
	n := len(r.writes) + r.reads
	if r.failAll || (r.failAt != 0 && n == r.failAt) {
		return r.failErr
	}
	return nil
}

// Writes returns a copy of everything recorded so far.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Reset discards recorded writes and failure settings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.reads = 0
	r.failAt = 0
	r.failAll = false
	r.failErr = nil
}
