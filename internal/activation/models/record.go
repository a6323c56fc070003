package models

import (
	"time"

	dErrors "taskgate/pkg/domain-errors"
	id "taskgate/pkg/domain"
)

// Role selects which onboarding step table applies to a principal.
type Role string

const (
	// RoleDoer is the task-performing side of the marketplace. Doers must
	// finish training, pass the quiz, and register bank details for payouts.
	RoleDoer Role = "doer"

	// RoleClient posts tasks. Clients only complete a profile and register a
	// payment method.
	RoleClient Role = "client"
)

// ParseRole validates a role string from a trust boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoer, RoleClient:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be doer or client")
	}
}

// Step is one ordered unit of required onboarding work.
type Step string

const (
	StepProfile       Step = "profile"
	StepTraining      Step = "training"
	StepQuiz          Step = "quiz"
	StepBankDetails   Step = "bank_details"
	StepPaymentMethod Step = "payment_method"
)

// ParseStep validates a step identifier from a trust boundary.
func ParseStep(s string) (Step, error) {
	switch Step(s) {
	case StepProfile, StepTraining, StepQuiz, StepBankDetails, StepPaymentMethod:
		return Step(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown onboarding step")
	}
}

// QuizAttemptResult is the graded outcome retained on the record. Only the
// result survives grading; the raw answer map is discarded.
type QuizAttemptResult struct {
	AttemptID   id.AttemptID `json:"attempt_id"`
	Score       float64      `json:"score"`
	Passed      bool         `json:"passed"`
	AttemptedAt time.Time    `json:"attempted_at"`
}

// ActivationRecord is the persisted state of one user's progress through the
// onboarding gate. OnboardingCompleted is derived: it is recomputed by the
// state machine on every mutation and never set independently.
type ActivationRecord struct {
	UserID id.UserID `json:"user_id"`
	Role   Role      `json:"role"`

	ProfileCompleted        bool `json:"profile_completed"`
	TrainingCompleted       bool `json:"training_completed"`
	TrainingProgressPercent int  `json:"training_progress_percent"`

	QuizPassed      bool               `json:"quiz_passed"`
	LastQuizAttempt *QuizAttemptResult `json:"last_quiz_attempt,omitempty"`

	BankDetailsAdded   bool `json:"bank_details_added"`
	PaymentMethodAdded bool `json:"payment_method_added"`

	OnboardingCompleted bool `json:"onboarding_completed"`

	// Version increments on every save; stores reject writes whose expected
	// version no longer matches (stale snapshot detection).
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord creates an empty record for a freshly signed-up principal.
func NewRecord(userID id.UserID, role Role) *ActivationRecord {
	return &ActivationRecord{
		UserID: userID,
		Role:   role,
	}
}

// StepComplete reports whether the given step's completion flag is set.
// Unknown steps are never complete.
func (r *ActivationRecord) StepComplete(step Step) bool {
	switch step {
	case StepProfile:
		return r.ProfileCompleted
	case StepTraining:
		return r.TrainingCompleted
	case StepQuiz:
		return r.QuizPassed
	case StepBankDetails:
		return r.BankDetailsAdded
	case StepPaymentMethod:
		return r.PaymentMethodAdded
	default:
		return false
	}
}

// Clone returns a deep copy so guard evaluations can treat reads as snapshots.
func (r *ActivationRecord) Clone() *ActivationRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.LastQuizAttempt != nil {
		attempt := *r.LastQuizAttempt
		out.LastQuizAttempt = &attempt
	}
	return &out
}
