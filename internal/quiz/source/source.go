// Package source loads question banks for grading. Content authoring and
// delivery live elsewhere; this is only the read path the grader needs.
package source

import (
	"context"

	"taskgate/internal/quiz/models"
)

// QuestionSource supplies the ordered question bank for a quiz identifier.
type QuestionSource interface {
	Bank(ctx context.Context, quizID string) (*models.Bank, error)
}
