package handler

import (
	"time"

	"taskgate/internal/activation/models"
	"taskgate/internal/activation/service"
)

// RecordResponse is the public projection of an activation record.
type RecordResponse struct {
	UserID                  string           `json:"user_id"`
	Role                    string           `json:"role"`
	ProfileCompleted        bool             `json:"profile_completed"`
	TrainingCompleted       bool             `json:"training_completed"`
	TrainingProgressPercent int              `json:"training_progress_percent"`
	QuizPassed              bool             `json:"quiz_passed"`
	LastQuizAttempt         *AttemptResponse `json:"last_quiz_attempt,omitempty"`
	BankDetailsAdded        bool             `json:"bank_details_added"`
	PaymentMethodAdded      bool             `json:"payment_method_added"`
	OnboardingCompleted     bool             `json:"onboarding_completed"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// AttemptResponse is the retained outcome of the last graded quiz attempt.
type AttemptResponse struct {
	AttemptID   string    `json:"attempt_id"`
	Score       float64   `json:"score"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// StepResponse is one stepper row.
type StepResponse struct {
	Step     string `json:"step"`
	Complete bool   `json:"complete"`
	Unlocked bool   `json:"unlocked"`
}

// StatusResponse is the full onboarding status view.
type StatusResponse struct {
	CurrentStep    string         `json:"current_step,omitempty"`
	FullyActivated bool           `json:"fully_activated"`
	Steps          []StepResponse `json:"steps"`
	Record         RecordResponse `json:"record"`
}

// QuizResultResponse is returned from a graded submission.
type QuizResultResponse struct {
	Score       float64                  `json:"score"`
	Passed      bool                     `json:"passed"`
	PerQuestion []QuestionResultResponse `json:"per_question"`
	Record      RecordResponse           `json:"record"`
}

// QuestionResultResponse is the per-question grading outcome.
type QuestionResultResponse struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
}

func fromRecord(record *models.ActivationRecord) RecordResponse {
	resp := RecordResponse{
		UserID:                  record.UserID.String(),
		Role:                    string(record.Role),
		ProfileCompleted:        record.ProfileCompleted,
		TrainingCompleted:       record.TrainingCompleted,
		TrainingProgressPercent: record.TrainingProgressPercent,
		QuizPassed:              record.QuizPassed,
		BankDetailsAdded:        record.BankDetailsAdded,
		PaymentMethodAdded:      record.PaymentMethodAdded,
		OnboardingCompleted:     record.OnboardingCompleted,
		UpdatedAt:               record.UpdatedAt,
	}
	if record.LastQuizAttempt != nil {
		resp.LastQuizAttempt = &AttemptResponse{
			AttemptID:   record.LastQuizAttempt.AttemptID.String(),
			Score:       record.LastQuizAttempt.Score,
			Passed:      record.LastQuizAttempt.Passed,
			AttemptedAt: record.LastQuizAttempt.AttemptedAt,
		}
	}
	return resp
}

func fromStatus(status *service.Status) StatusResponse {
	steps := make([]StepResponse, 0, len(status.Steps))
	for _, s := range status.Steps {
		steps = append(steps, StepResponse{
			Step:     string(s.Step),
			Complete: s.Complete,
			Unlocked: s.Unlocked,
		})
	}
	return StatusResponse{
		CurrentStep:    string(status.CurrentStep),
		FullyActivated: status.FullyActivated,
		Steps:          steps,
		Record:         fromRecord(status.Record),
	}
}

func fromQuizResult(result *service.SubmitQuizResult) QuizResultResponse {
	perQuestion := make([]QuestionResultResponse, 0, len(result.Grade.PerQuestion))
	for _, q := range result.Grade.PerQuestion {
		perQuestion = append(perQuestion, QuestionResultResponse{
			QuestionID: q.QuestionID.String(),
			Correct:    q.Correct,
		})
	}
	return QuizResultResponse{
		Score:       result.Grade.Score,
		Passed:      result.Grade.Passed,
		PerQuestion: perQuestion,
		Record:      fromRecord(result.Record),
	}
}
