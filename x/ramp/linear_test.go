package ramp

import (
	"errors"
	"testing"
	"time"
)

func collect(t *testing.T, cur, to, top uint16, d time.Duration, steps uint16) []uint16 {
	t.Helper()
	var got []uint16
	err := Linear(cur, to, top, d, steps,
		func(time.Duration) bool { return true },
		func(v uint16) error { got = append(got, v); return nil })
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestLinear_Snap(t *testing.T) {
	if got := collect(t, 0, 500, 1023, 0, 10); len(got) != 1 || got[0] != 500 {
		t.Fatalf("got %v", got)
	}
	if got := collect(t, 0, 2000, 1023, time.Second, 0); len(got) != 1 || got[0] != 1023 {
		t.Fatalf("got %v", got)
	}
}

func TestLinear_UpAndDown(t *testing.T) {
	up := collect(t, 0, 1000, 1023, time.Second, 4)
	want := []uint16{250, 500, 750, 1000}
	if len(up) != len(want) {
		t.Fatalf("up = %v", up)
	}
	for i := range want {
		if up[i] != want[i] {
			t.Fatalf("up = %v, want %v", up, want)
		}
	}

	down := collect(t, 1000, 0, 1023, time.Second, 4)
	for i := 1; i < len(down); i++ {
		if down[i] > down[i-1] {
			t.Fatalf("not monotonic: %v", down)
		}
	}
	if down[len(down)-1] != 0 {
		t.Fatalf("down = %v", down)
	}
}

func TestLinear_CancelAndError(t *testing.T) {
	n := 0
	err := Linear(0, 1000, 1023, time.Second, 10,
		func(time.Duration) bool { n++; return n < 3 },
		func(uint16) error { return nil })
	if err != nil || n != 3 {
		t.Fatalf("err=%v ticks=%d", err, n)
	}

	boom := errors.New("nack")
	calls := 0
	err = Linear(0, 1000, 1023, time.Second, 10,
		func(time.Duration) bool { return true },
		func(uint16) error { calls++; return boom })
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}
