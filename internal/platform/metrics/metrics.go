package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-level Prometheus metrics shared by all handlers.
// Module-specific metrics live next to their modules.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	UsersCreated   prometheus.Counter
}

// New creates and registers the shared metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskgate_http_request_duration_seconds",
			Help:    "HTTP request duration by path and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"path", "status"}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskgate_users_created_total",
			Help: "Total number of users created in the system",
		}),
	}
}

// ObserveRequest records one request's duration in seconds.
func (m *Metrics) ObserveRequest(path, status string, seconds float64) {
	if m != nil {
		m.RequestLatency.WithLabelValues(path, status).Observe(seconds)
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}
