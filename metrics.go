package async

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts invocations observed by Instrument and rounds run by
// Scheduler.Interleave. A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	completions *prometheus.CounterVec
	rounds      prometheus.Counter
}

// NewMetrics registers the counters with reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_invocations_total",
				Help:      "Total number of task invocations by command",
			},
			[]string{"task", "command"},
		),
		completions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_completions_total",
				Help:      "Total number of running to done transitions",
			},
			[]string{"task"},
		),
		rounds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interleave_rounds_total",
				Help:      "Total number of interleave rounds",
			},
		),
	}
}

func (m *Metrics) invoked(task string, cmd Command) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(task, cmd.String()).Inc()
}

func (m *Metrics) completed(task string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(task).Inc()
}

func (m *Metrics) round() {
	if m == nil {
		return
	}
	m.rounds.Inc()
}
