package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the activation module.
type Metrics struct {
	// Step completions by role and step
	StepsCompleted *prometheus.CounterVec

	// Quiz grading outcomes by pass/fail
	QuizGraded *prometheus.CounterVec

	// Users who finished the whole gate
	OnboardingCompleted prometheus.Counter

	// Saves rejected because the record changed underneath the caller
	StaleSaves prometheus.Counter
}

// New creates a new Metrics instance with all activation module metrics registered.
func New() *Metrics {
	return &Metrics{
		StepsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_activation_steps_completed_total",
			Help: "Total onboarding step completions by role and step",
		}, []string{"role", "step"}),

		QuizGraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_activation_quiz_graded_total",
			Help: "Total quiz grading outcomes by result",
		}, []string{"passed"}),

		OnboardingCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskgate_activation_onboarding_completed_total",
			Help: "Total users who completed every onboarding step",
		}),

		StaleSaves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskgate_activation_stale_saves_total",
			Help: "Total record saves rejected by the version check",
		}),
	}
}

// IncrementStepCompleted records one successful step completion.
func (m *Metrics) IncrementStepCompleted(role, step string) {
	if m != nil {
		m.StepsCompleted.WithLabelValues(role, step).Inc()
	}
}

// IncrementQuizGraded records one grading outcome.
func (m *Metrics) IncrementQuizGraded(passed bool) {
	if m != nil {
		m.QuizGraded.WithLabelValues(strconv.FormatBool(passed)).Inc()
	}
}

// IncrementOnboardingCompleted records one fully activated user.
func (m *Metrics) IncrementOnboardingCompleted() {
	if m != nil {
		m.OnboardingCompleted.Inc()
	}
}

// IncrementStaleSaves records one optimistic-concurrency rejection.
func (m *Metrics) IncrementStaleSaves() {
	if m != nil {
		m.StaleSaves.Inc()
	}
}
