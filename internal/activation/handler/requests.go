package handler

import (
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
)

// TrainingProgressRequest is the JSON body for PUT /onboarding/training/progress.
type TrainingProgressRequest struct {
	ProgressPercent *int `json:"progress_percent"`
}

func (r TrainingProgressRequest) Validate() error {
	if r.ProgressPercent == nil {
		return dErrors.New(dErrors.CodeBadRequest, "progress_percent is required")
	}
	if *r.ProgressPercent < 0 || *r.ProgressPercent > 100 {
		return dErrors.New(dErrors.CodeBadRequest, "progress_percent must be between 0 and 100")
	}
	return nil
}

// SubmitQuizRequest is the JSON body for POST /onboarding/quiz/submit.
// Answers map question IDs to the selected 0-based option index; missing or
// out-of-range entries grade as incorrect.
type SubmitQuizRequest struct {
	QuizID  string                `json:"quiz_id"`
	Answers map[id.QuestionID]int `json:"answers"`
}

func (r SubmitQuizRequest) Validate() error {
	if r.QuizID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "quiz_id is required")
	}
	return nil
}
