package async

import (
	"sync/atomic"
	"time"
)

// Counter is the representation of a monotonic tick count. Only
// unsigned types are allowed so that differences wrap correctly.
type Counter interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Clock is an externally supplied monotonic tick source.
type Clock[T Counter] interface {
	Now() T
}

// ClockFunc adapts a function to a Clock.
type ClockFunc[T Counter] func() T

// Now calls fn.
func (fn ClockFunc[T]) Now() T {
	return fn()
}

// Timeout is a deadline record: the tick at which it was armed and
// the span it waits for. Expiry is computed with wrapping unsigned
// arithmetic, so a counter that overflows between Set and Expired
// still compares correctly as long as Duration is smaller than half
// the range of T.
type Timeout[T Counter] struct {
	Start    T
	Duration T
}

// Set arms the timeout at the current reading of c.
func (t *Timeout[T]) Set(c Clock[T], d T) {
	if t == nil {
		return
	}
	t.Start = c.Now()
	t.Duration = d
}

// Elapsed returns the ticks since the timeout was armed.
func (t *Timeout[T]) Elapsed(c Clock[T]) T {
	return c.Now() - t.Start
}

// Expired reports whether Duration ticks have elapsed. A nil timeout
// is always expired.
func (t *Timeout[T]) Expired(c Clock[T]) bool {
	if t == nil {
		return true
	}
	return t.Elapsed(c) >= t.Duration
}

var epoch = time.Now()

// Millis returns a clock counting milliseconds since process start.
// It wraps after about 49.7 days.
func Millis() Clock[uint32] {
	return ClockFunc[uint32](func() uint32 {
		return uint32(time.Since(epoch).Milliseconds())
	})
}

// ManualClock is a clock that only moves when told to. It is meant
// for simulations and tests that need exact tick control.
type ManualClock[T Counter] struct {
	now atomic.Uint64
}

// NewManualClock returns a clock reading start.
func NewManualClock[T Counter](start T) *ManualClock[T] {
	c := new(ManualClock[T])
	c.Set(start)
	return c
}

// Now returns the current tick, truncated to T.
func (c *ManualClock[T]) Now() T {
	return T(c.now.Load())
}

// Set moves the clock to tick.
func (c *ManualClock[T]) Set(tick T) {
	c.now.Store(uint64(tick))
}

// Advance moves the clock forward by d ticks, wrapping at the range
// of T, and returns the new reading.
func (c *ManualClock[T]) Advance(d T) T {
	next := c.Now() + d
	c.Set(next)
	return next
}
