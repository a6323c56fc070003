package audit

import (
	"time"

	id "taskgate/pkg/domain"
)

// Action names the domain event an audit entry records.
type Action string

const (
	ActionUserSignedUp        Action = "user_signed_up"
	ActionUserLoggedIn        Action = "user_logged_in"
	ActionStepCompleted       Action = "step_completed"
	ActionQuizGraded          Action = "quiz_graded"
	ActionQuizRetried         Action = "quiz_retried"
	ActionOnboardingCompleted Action = "onboarding_completed"
	ActionGuardRedirect       Action = "guard_redirect"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    id.UserID `json:"user_id"`
	Action    Action    `json:"action"`

	// Step is set for step_completed events.
	Step string `json:"step,omitempty"`

	// Decision and Reason are set for guard_redirect events.
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Score is set for quiz_graded events.
	Score  float64 `json:"score,omitempty"`
	Passed bool    `json:"passed,omitempty"`

	Device    string `json:"device,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
