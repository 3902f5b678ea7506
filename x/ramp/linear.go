// Package ramp steps an integer level towards a target.
package ramp

import (
	"time"

	"lightcode-go/x/mathx"
)

// Step applies one level in [0..top]. A non-nil error stops the ramp.
type Step func(level uint16) error

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear drives a caller-timed integer ramp from cur to to over duration in
// the given number of steps. Levels are clamped to top. steps==0 or
// duration==0 snaps straight to to. The last level set is always to unless
// the ramp is cancelled or a step fails.
func Linear(cur, to, top uint16, duration time.Duration, steps uint16, tick Tick, set Step) error {
	to = min(to, top)
	if steps == 0 || duration <= 0 {
		return set(to)
	}
	stepDur := max(duration/time.Duration(steps), time.Millisecond)

	delta := int32(to) - int32(cur)
	st := int32(steps)
	acc := int32(0)
	level := int32(cur)
	for i := uint16(1); i < steps; i++ {
		if !tick(stepDur) {
			return nil
		}
		acc += delta
		inc := acc / st
		if inc == 0 {
			continue
		}
		acc -= inc * st
		level = mathx.Clamp(level+inc, 0, int32(top))
		if err := set(uint16(level)); err != nil {
			return err
		}
	}
	if !tick(stepDur) {
		return nil
	}
	return set(to)
}
