package models

import (
	"time"

	id "taskgate/pkg/domain"
)

// OptionsPerQuestion is the fixed option count for every bank entry.
const OptionsPerQuestion = 4

// Question is one entry in a question bank.
type Question struct {
	ID     id.QuestionID `json:"id"`
	Prompt string        `json:"prompt"`

	// Options always holds exactly OptionsPerQuestion answers.
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`

	// OrderIndex defines presentation and grading order, stable across attempts.
	OrderIndex int `json:"order_index"`
}

// Bank is the ordered question set for one quiz.
type Bank struct {
	QuizID    string     `json:"quiz_id"`
	Questions []Question `json:"questions"`
}

// Submission is the ephemeral answer set under grading. It is replaced on
// every submit; only the graded result is retained on the activation record.
type Submission struct {
	UserID id.UserID

	// Answers maps question ID to the selected 0-based option index.
	// Missing or out-of-range entries are graded as incorrect.
	Answers map[id.QuestionID]int

	SubmittedAt time.Time
}

// QuestionResult is the per-question outcome of grading.
type QuestionResult struct {
	QuestionID id.QuestionID `json:"question_id"`
	Correct    bool          `json:"correct"`
}

// GradeResult is the full grading outcome.
type GradeResult struct {
	Score       float64          `json:"score"`
	Passed      bool             `json:"passed"`
	PerQuestion []QuestionResult `json:"per_question"`
}
