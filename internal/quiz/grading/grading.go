// Package grading scores quiz submissions against a question bank.
// This is pure domain logic - no I/O, no side effects.
package grading

import (
	"sort"

	"taskgate/internal/quiz/models"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
)

// Engine grades submissions against a configurable passing threshold.
type Engine struct {
	thresholdPercent float64
}

// New creates an Engine. thresholdPercent is clamped into [0,100].
func New(thresholdPercent int) *Engine {
	t := float64(thresholdPercent)
	if t < 0 {
		t = 0
	}
	if t > 100 {
		t = 100
	}
	return &Engine{thresholdPercent: t}
}

// Threshold returns the configured passing threshold in percent.
func (e *Engine) Threshold() float64 {
	return e.thresholdPercent
}

// Grade scores every question in the bank against the submitted answers.
//
// Grading is total: questions missing from the answer map, and answers whose
// option index falls outside the question's options, score as incorrect and
// stay in the denominator. Bad answers never produce an error; the only
// failure is an empty bank, where the score would be a zero-denominator.
//
// PerQuestion follows the bank's OrderIndex so results are stable across
// attempts regardless of answer-map iteration order.
func (e *Engine) Grade(bank *models.Bank, answers map[id.QuestionID]int) (*models.GradeResult, error) {
	if bank == nil || len(bank.Questions) == 0 {
		return nil, dErrors.New(dErrors.CodeEmptyQuestionBank, "question bank has no questions")
	}

	questions := make([]models.Question, len(bank.Questions))
	copy(questions, bank.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})

	perQuestion := make([]models.QuestionResult, 0, len(questions))
	correct := 0
	for _, q := range questions {
		selected, answered := answers[q.ID]
		ok := answered && selected >= 0 && selected < len(q.Options) && selected == q.CorrectOptionIndex
		if ok {
			correct++
		}
		perQuestion = append(perQuestion, models.QuestionResult{
			QuestionID: q.ID,
			Correct:    ok,
		})
	}

	score := 100 * float64(correct) / float64(len(questions))
	return &models.GradeResult{
		Score:       score,
		Passed:      score >= e.thresholdPercent,
		PerQuestion: perQuestion,
	}, nil
}
