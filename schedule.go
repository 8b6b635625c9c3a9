package async

import (
	"context"
	"runtime/trace"

	"go.uber.org/zap"
)

const (
	scheduleTraceTaskType = "async-interleave"
)

// Invoker is the control protocol of a task identity. Task and
// Coroutine implement it, and Instrument wraps it.
type Invoker[A, R any] interface {
	Invoke(Command, A) Record[R]
}

// Await issues exactly one Run and returns the resulting record. It
// is the building block for interleaving several tasks from a loop
// written by the caller.
func Await[A, R any](inv Invoker[A, R], args A) Record[R] {
	return inv.Invoke(Run, args)
}

// Block issues Run until the task is Done and returns the final
// record. Nothing else runs in the calling context until it returns,
// so it is only correct when no other task needs to make progress
// meanwhile.
func Block[A, R any](inv Invoker[A, R], args A) Record[R] {
	for {
		if rec := inv.Invoke(Run, args); rec.Done() {
			return rec
		}
	}
}

// Stepper is a task bound to its arguments, advanced one Run at a
// time. It hides the task's types so that unrelated tasks can be
// interleaved together.
type Stepper interface {
	Step() Status
}

// StepperFunc adapts a function to a Stepper.
type StepperFunc func() Status

// Step calls fn.
func (fn StepperFunc) Step() Status {
	return fn()
}

// Bind returns a Stepper that awaits inv with args on every Step.
func Bind[A, R any](inv Invoker[A, R], args A) Stepper {
	return StepperFunc(func() Status {
		return Await(inv, args).Status()
	})
}

// Scheduler drives groups of steppers round-robin. It holds no tasks
// itself; it only carries the logger and metrics used by Interleave.
type Scheduler struct {
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Scheduler or an instrumented invoker.
type Option func(*options)

type options struct {
	log     *zap.Logger
	metrics *Metrics
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics sets the metrics sink. The default records nothing.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	o := newOptions(opts)
	return &Scheduler{
		log:     o.log.With(zap.String("component", "scheduler")),
		metrics: o.metrics,
	}
}

// Interleave advances every stepper once per round, in order, until
// all of them are Done, and returns the number of rounds. ctx is
// checked between rounds only; a stepper that blocks inside its Step
// cannot be interrupted. On cancellation the steppers keep their
// state and Interleave returns ctx.Err().
func (s *Scheduler) Interleave(ctx context.Context, steppers ...Stepper) (int, error) {
	ctx, tracer := trace.NewTask(ctx, scheduleTraceTaskType)
	defer tracer.End()

	g := NewGroup(steppers...)
	rounds := 0

	for g.Len() > 0 {
		if err := ctx.Err(); err != nil {
			s.log.Debug("interleave cancelled",
				zap.Int("rounds", rounds),
				zap.Int("pending", g.Len()),
				zap.Error(err))
			return rounds, err
		}

		g.Step()
		rounds++
		s.metrics.round()

		trace.Logf(ctx, taskTraceCategory, "ROUND %d PENDING %d", rounds, g.Len())
		s.log.Debug("interleave round",
			zap.Int("round", rounds),
			zap.Int("pending", g.Len()))
	}

	s.log.Debug("interleave done", zap.Int("rounds", rounds))
	return rounds, nil
}
