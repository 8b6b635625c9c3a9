package async

import (
	"fmt"
	"runtime/trace"
	"sync/atomic"

	"github.com/webriots/coro"
)

// Routine is the body of a Coroutine. Unlike a Body it is ordinary
// straight-line Go: every local survives a suspension because the
// suspended call itself is kept alive until the next Run.
type Routine[A, R any] func(y *Yielder[A, R])

// Yielder is the handle a Routine suspends through.
type Yielder[A, R any] struct {
	c       *Coroutine[A, R]
	suspend func() struct{}
	args    A
	final   []R
}

// Args returns the arguments of the invocation currently running the
// routine. They change on every Run.
func (y *Yielder[A, R]) Args() A {
	return y.args
}

// Yield publishes result, or clears the published result when none
// is given, and suspends until the next Run.
func (y *Yielder[A, R]) Yield(result ...R) {
	y.c.rec.status = Running
	y.c.rec.publish(result)
	y.c.Log("YIELD")
	y.suspend()
}

// YieldUntil suspends until cond holds. It always suspends at least
// once and evaluates cond after every resumption.
func (y *Yielder[A, R]) YieldUntil(cond func() bool, result ...R) {
	if cond == nil {
		panic("async: nil YieldUntil condition")
	}
	for {
		y.Yield(result...)
		if cond() {
			return
		}
	}
}

// Return sets the result published when the routine returns. Without
// it completion clears the result.
func (y *Yielder[A, R]) Return(result R) {
	y.final = []R{result}
}

// Sleep suspends y until d ticks of c have elapsed, arming a fresh
// timeout on every call.
func Sleep[A, R any, T Counter](y *Yielder[A, R], c Clock[T], d T, result ...R) {
	if c == nil {
		panic("async: Sleep requires a clock")
	}
	var timeout Timeout[T]
	timeout.Set(c, d)
	y.YieldUntil(func() bool { return timeout.Expired(c) }, result...)
}

// Coroutine is a task identity whose resume point is a suspended
// coroutine from github.com/webriots/coro rather than an explicit state
// id. It follows the same control protocol as Task: Run resumes the
// routine, Reset cancels it so the next Run starts from the top, and
// Done is idempotent with the final result retained.
type Coroutine[A, R any] struct {
	noCopy noCopy
	fn     Routine[A, R]
	name   string
	reset  []R
	rec    Record[R]
	y      *Yielder[A, R]
	resume func(struct{}) (struct{}, bool)
	cancel func()
	busy   atomic.Bool
}

// NewCoroutine creates a coroutine task identity for fn.
func NewCoroutine[A, R any](fn Routine[A, R]) *Coroutine[A, R] {
	if fn == nil {
		panic("async: nil routine")
	}
	return &Coroutine[A, R]{fn: fn}
}

// WithName sets the name used in traces.
func (c *Coroutine[A, R]) WithName(name string) *Coroutine[A, R] {
	c.name = name
	return c
}

// WithResetResult declares the result published by every Reset.
func (c *Coroutine[A, R]) WithResetResult(result R) *Coroutine[A, R] {
	c.reset = []R{result}
	return c
}

// Name returns the coroutine name, or its address when unnamed.
func (c *Coroutine[A, R]) Name() string {
	if c.name == "" {
		return fmt.Sprintf("%p", c)
	}
	return c.name
}

// Invoke applies cmd and returns the updated record.
func (c *Coroutine[A, R]) Invoke(cmd Command, args A) Record[R] {
	if !c.busy.CompareAndSwap(false, true) {
		panic("async: coroutine " + c.Name() + " invoked while already running")
	}
	defer c.busy.Store(false)

	switch cmd {
	case Run:
		return c.run(args)
	case Reset:
		return c.resetz(c.reset)
	default:
		panic("async: unknown command " + cmd.String())
	}
}

// Run is Invoke(Run, args).
func (c *Coroutine[A, R]) Run(args A) Record[R] {
	return c.Invoke(Run, args)
}

// Reset cancels the suspended routine, if any, and publishes the
// declared reset result.
func (c *Coroutine[A, R]) Reset() Record[R] {
	var zero A
	return c.Invoke(Reset, zero)
}

// ResetWith is Reset publishing result instead of the declared reset
// result.
func (c *Coroutine[A, R]) ResetWith(result R) Record[R] {
	if !c.busy.CompareAndSwap(false, true) {
		panic("async: coroutine " + c.Name() + " invoked while already running")
	}
	defer c.busy.Store(false)
	return c.resetz([]R{result})
}

// Record returns the record as of the last invocation.
func (c *Coroutine[A, R]) Record() Record[R] {
	return c.rec
}

// Close cancels a suspended routine without changing the record. A
// later Run on an unfinished coroutine starts it from the top.
func (c *Coroutine[A, R]) Close() {
	c.stop()
}

func (c *Coroutine[A, R]) run(args A) Record[R] {
	if c.rec.status == Done {
		c.Log("DONE POLL")
		return c.rec
	}

	if c.resume == nil {
		c.start()
	}

	c.y.args = args
	if _, ok := c.resume(struct{}{}); ok {
		return c.rec
	}

	final := c.y.final
	c.resume, c.cancel, c.y = nil, nil, nil
	c.rec.status = Done
	c.rec.publish(final)
	c.Log("END")

	return c.rec
}

func (c *Coroutine[A, R]) start() {
	y := &Yielder[A, R]{c: c}

	resume, cancel := coro.New(
		func(_ func(struct{}) struct{}, suspend func() struct{}) (z struct{}) {
			y.suspend = suspend
			c.fn(y)
			return
		},
	)

	c.y = y
	c.resume = resume
	c.cancel = cancel
	c.Log("START")
}

func (c *Coroutine[A, R]) stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.resume, c.cancel, c.y = nil, nil, nil
}

func (c *Coroutine[A, R]) resetz(result []R) Record[R] {
	c.stop()
	c.rec.status = Running
	c.rec.publish(result)
	c.Log("RESET")
	return c.rec
}

// Log writes msg to the execution trace when tracing is enabled.
func (c *Coroutine[A, R]) Log(msg string) {
	if trace.IsEnabled() {
		traceLog(c.Name(), msg)
	}
}
