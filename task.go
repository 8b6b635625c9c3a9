package async

import (
	"context"
	"fmt"
	"runtime/trace"
	"strings"
	"sync/atomic"
)

const (
	taskTraceRegionType = "async-invoke"
	taskTraceCategory   = "async"
)

// Body is the code of a resumable task. It is called once per Run
// with the task's Frame and the arguments of that invocation, and
// returns Running after a suspend primitive asked it to, or the
// status returned by Frame.End.
//
// A body dispatches on f.Point() with one case per suspend site, and
// each case starts by calling the same primitive again so that it can
// land there:
//
//	switch f.Point() {
//	case async.Entry:
//		f.State.i = 0
//	case 1:
//		f.Yield(1)
//		f.State.i++
//	}
//	if f.State.i < max {
//		if f.Yield(1, f.State.i) {
//			return async.Running
//		}
//	}
//	return f.End()
//
// Only f.State survives between invocations. Ordinary locals are
// fresh on every call.
type Body[S, A, R any] func(f *Frame[S, R], args A) Status

// Frame is the persistent execution record of one task identity: its
// status, resume point, published result and declared-persistent
// state.
type Frame[S, R any] struct {
	// State holds the values the body keeps across suspensions. Reset
	// does not clear it; bodies initialize it at Entry.
	State S

	rec       Record[R]
	point     Point
	resuming  bool // set until a primitive lands on point
	suspended bool // a primitive suspended during this invocation
	ended     bool // End was reached during this invocation
}

// Point returns the resume point. It is Entry on the first Run and
// after a Reset.
func (f *Frame[S, R]) Point() Point {
	return f.point
}

// Resuming reports whether the current invocation continues from a
// suspend site that no primitive has landed on yet.
func (f *Frame[S, R]) Resuming() bool {
	return f.resuming
}

// Task is one named resumable computation with its own Frame. The
// zero Task is not usable; create one with New. A Task must be driven
// from a single execution context: invoking it while an invocation is
// in progress panics.
type Task[S, A, R any] struct {
	noCopy noCopy
	frame  Frame[S, R]
	body   Body[S, A, R]
	name   string
	reset  []R
	busy   atomic.Bool
}

// New creates a task identity for body. Its record starts Running at
// Entry with no result.
func New[S, A, R any](body Body[S, A, R]) *Task[S, A, R] {
	if body == nil {
		panic("async: nil task body")
	}
	return &Task[S, A, R]{body: body}
}

// WithName sets the name used in traces and logs.
func (t *Task[S, A, R]) WithName(name string) *Task[S, A, R] {
	t.name = name
	return t
}

// WithResetResult declares the result published by every Reset.
// Without it a Reset clears the result.
func (t *Task[S, A, R]) WithResetResult(result R) *Task[S, A, R] {
	t.reset = []R{result}
	return t
}

// Name returns the task name, or its address when unnamed.
func (t *Task[S, A, R]) Name() string {
	if t.name == "" {
		return fmt.Sprintf("%p", t)
	}
	return t.name
}

// Invoke applies cmd to the task and returns the updated record.
func (t *Task[S, A, R]) Invoke(cmd Command, args A) Record[R] {
	if !t.busy.CompareAndSwap(false, true) {
		panic("async: task " + t.Name() + " invoked while already running")
	}
	defer t.busy.Store(false)

	switch cmd {
	case Run:
		return t.run(args)
	case Reset:
		return t.resetz(t.reset)
	default:
		panic("async: unknown command " + cmd.String())
	}
}

// Run is Invoke(Run, args).
func (t *Task[S, A, R]) Run(args A) Record[R] {
	return t.Invoke(Run, args)
}

// Reset discards the resume point, marks the task Running and
// publishes the declared reset result. The body does not execute.
func (t *Task[S, A, R]) Reset() Record[R] {
	var zero A
	return t.Invoke(Reset, zero)
}

// ResetWith is Reset publishing result instead of the declared reset
// result.
func (t *Task[S, A, R]) ResetWith(result R) Record[R] {
	if !t.busy.CompareAndSwap(false, true) {
		panic("async: task " + t.Name() + " invoked while already running")
	}
	defer t.busy.Store(false)
	return t.resetz([]R{result})
}

// Record returns the record as of the last invocation.
func (t *Task[S, A, R]) Record() Record[R] {
	return t.frame.rec
}

// Point returns the resume point the next Run continues from.
func (t *Task[S, A, R]) Point() Point {
	return t.frame.point
}

// State returns the task's persistent state for inspection between
// invocations.
func (t *Task[S, A, R]) State() *S {
	return &t.frame.State
}

func (t *Task[S, A, R]) run(args A) Record[R] {
	f := &t.frame

	if f.rec.status == Done {
		t.Log("DONE POLL")
		return f.rec
	}

	f.resuming = f.point != Entry
	f.suspended = false
	f.ended = false

	t.Logf("RUN %d", f.point)

	var status Status
	if trace.IsEnabled() {
		trace.WithRegion(context.Background(), taskTraceRegionType, func() {
			status = t.body(f, args)
		})
	} else {
		status = t.body(f, args)
	}
	f.resuming = false

	switch status {
	case Running:
		if !f.suspended {
			panic("async: task " + t.Name() + " returned running without suspending")
		}
		t.Logf("YIELD %d", f.point)
	case Done:
		if !f.ended {
			panic("async: task " + t.Name() + " returned done without reaching End")
		}
		t.Log("END")
	default:
		panic("async: task " + t.Name() + " returned " + status.String())
	}

	return f.rec
}

func (t *Task[S, A, R]) resetz(result []R) Record[R] {
	f := &t.frame
	f.point = Entry
	f.resuming = false
	f.suspended = false
	f.ended = false
	f.rec.status = Running
	f.rec.publish(result)

	t.Log("RESET")
	return f.rec
}

// Log writes msg to the execution trace when tracing is enabled.
func (t *Task[S, A, R]) Log(msg string) {
	if trace.IsEnabled() {
		traceLog(t.Name(), msg)
	}
}

// Logf is Log with formatting.
func (t *Task[S, A, R]) Logf(format string, args ...any) {
	if trace.IsEnabled() {
		traceLog(t.Name(), fmt.Sprintf(format, args...))
	}
}

func traceLog(name, msg string) {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteRune(' ')
	sb.WriteString(msg)
	trace.Log(context.Background(), taskTraceCategory, sb.String())
}
