package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the route guard.
type Metrics struct {
	// Guard outcomes by decision and the rule that produced it
	Decisions *prometheus.CounterVec

	// Record fetches that errored during a guard evaluation
	RecordFetchFailures prometheus.Counter
}

// New creates a new Metrics instance with all route guard metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_guard_decisions_total",
			Help: "Total route guard decisions by outcome and reason",
		}, []string{"outcome", "reason"}),

		RecordFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskgate_guard_record_fetch_failures_total",
			Help: "Total activation record fetch failures during guard evaluation",
		}),
	}
}

// IncrementDecision records one guard outcome.
func (m *Metrics) IncrementDecision(outcome, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, reason).Inc()
	}
}

// IncrementFetchFailure records one failed record fetch.
func (m *Metrics) IncrementFetchFailure() {
	if m != nil {
		m.RecordFetchFailures.Inc()
	}
}
