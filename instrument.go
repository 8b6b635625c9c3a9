package async

import "go.uber.org/zap"

// instrumented wraps an invoker with logging and metrics.
type instrumented[A, R any] struct {
	name    string
	inv     Invoker[A, R]
	log     *zap.Logger
	metrics *Metrics
	last    Status
}

// Instrument returns an invoker that forwards to inv, logging every
// command at debug level and counting invocations and completions
// under name. It adds no synchronization; the single execution
// context rule of inv still applies.
func Instrument[A, R any](name string, inv Invoker[A, R], opts ...Option) Invoker[A, R] {
	if inv == nil {
		panic("async: nil invoker")
	}
	o := newOptions(opts)
	return &instrumented[A, R]{
		name:    name,
		inv:     inv,
		log:     o.log.With(zap.String("task", name)),
		metrics: o.metrics,
	}
}

func (i *instrumented[A, R]) Invoke(cmd Command, args A) Record[R] {
	rec := i.inv.Invoke(cmd, args)
	_, ok := rec.Result()

	i.metrics.invoked(i.name, cmd)
	if cmd == Run && i.last == Running && rec.Done() {
		i.metrics.completed(i.name)
		i.log.Debug("task done", zap.Bool("result", ok))
	} else {
		i.log.Debug("task invoked",
			zap.Stringer("command", cmd),
			zap.Stringer("status", rec.Status()),
			zap.Bool("result", ok))
	}
	i.last = rec.Status()

	return rec
}
