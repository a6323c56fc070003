package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"taskgate/internal/quiz/models"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
)

type GradingSuite struct {
	suite.Suite
	bank *models.Bank
}

func TestGradingSuite(t *testing.T) {
	suite.Run(t, new(GradingSuite))
}

func (s *GradingSuite) SetupTest() {
	s.bank = newBank(10)
}

// newBank builds a bank of n questions where the correct option is always
// index 1 and OrderIndex matches insertion order.
func newBank(n int) *models.Bank {
	bank := &models.Bank{QuizID: "doer-onboarding"}
	for i := range n {
		bank.Questions = append(bank.Questions, models.Question{
			ID:                 id.NewQuestionID(),
			Prompt:             "prompt",
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: 1,
			OrderIndex:         i,
		})
	}
	return bank
}

// answersFor answers the first n questions correctly and the rest with a
// wrong (but valid) option index.
func answersFor(bank *models.Bank, correct int) map[id.QuestionID]int {
	answers := make(map[id.QuestionID]int, len(bank.Questions))
	for i, q := range bank.Questions {
		if i < correct {
			answers[q.ID] = q.CorrectOptionIndex
		} else {
			answers[q.ID] = 0
		}
	}
	return answers
}

func (s *GradingSuite) TestThresholdBoundary() {
	engine := New(80)

	s.Run("8 of 10 at threshold 80 passes with score 80", func() {
		result, err := engine.Grade(s.bank, answersFor(s.bank, 8))
		s.Require().NoError(err)
		s.InDelta(80.0, result.Score, 1e-9)
		s.True(result.Passed)
	})

	s.Run("7 of 10 fails", func() {
		result, err := engine.Grade(s.bank, answersFor(s.bank, 7))
		s.Require().NoError(err)
		s.InDelta(70.0, result.Score, 1e-9)
		s.False(result.Passed)
	})

	s.Run("all correct", func() {
		result, err := engine.Grade(s.bank, answersFor(s.bank, 10))
		s.Require().NoError(err)
		s.InDelta(100.0, result.Score, 1e-9)
		s.True(result.Passed)
	})
}

func (s *GradingSuite) TestTotality() {
	engine := New(80)

	s.Run("unanswered questions count as incorrect", func() {
		answers := answersFor(s.bank, 10)
		// Drop two answers entirely; denominator must not shrink.
		delete(answers, s.bank.Questions[3].ID)
		delete(answers, s.bank.Questions[7].ID)

		result, err := engine.Grade(s.bank, answers)
		s.Require().NoError(err)
		s.InDelta(80.0, result.Score, 1e-9)
		s.Len(result.PerQuestion, 10)
	})

	s.Run("out of range indices score as incorrect, never error", func() {
		answers := answersFor(s.bank, 10)
		answers[s.bank.Questions[0].ID] = -1
		answers[s.bank.Questions[1].ID] = 4
		answers[s.bank.Questions[2].ID] = 9000

		result, err := engine.Grade(s.bank, answers)
		s.Require().NoError(err)
		s.InDelta(70.0, result.Score, 1e-9)
	})

	s.Run("answers for unknown questions are ignored", func() {
		answers := answersFor(s.bank, 8)
		answers[id.NewQuestionID()] = 1

		result, err := engine.Grade(s.bank, answers)
		s.Require().NoError(err)
		s.InDelta(80.0, result.Score, 1e-9)
		s.Len(result.PerQuestion, 10)
	})

	s.Run("every bank question appears exactly once in per-question results", func() {
		result, err := engine.Grade(s.bank, nil)
		s.Require().NoError(err)
		seen := make(map[id.QuestionID]int)
		for _, qr := range result.PerQuestion {
			seen[qr.QuestionID]++
		}
		for _, q := range s.bank.Questions {
			s.Equal(1, seen[q.ID])
		}
	})
}

func (s *GradingSuite) TestDeterminism() {
	engine := New(80)
	answers := answersFor(s.bank, 6)

	first, err := engine.Grade(s.bank, answers)
	s.Require().NoError(err)
	second, err := engine.Grade(s.bank, answers)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *GradingSuite) TestPerQuestionFollowsOrderIndex() {
	engine := New(80)
	// Shuffle the bank's storage order; OrderIndex must win.
	bank := newBank(4)
	bank.Questions[0], bank.Questions[3] = bank.Questions[3], bank.Questions[0]

	result, err := engine.Grade(bank, nil)
	s.Require().NoError(err)

	byOrder := make([]models.Question, len(bank.Questions))
	copy(byOrder, bank.Questions)
	for _, q := range bank.Questions {
		byOrder[q.OrderIndex] = q
	}
	for i, qr := range result.PerQuestion {
		s.Equal(byOrder[i].ID, qr.QuestionID)
	}
}

func (s *GradingSuite) TestEmptyBank() {
	engine := New(80)

	for _, bank := range []*models.Bank{nil, {QuizID: "empty"}} {
		_, err := engine.Grade(bank, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEmptyQuestionBank))
	}
}

func TestNewClampsThreshold(t *testing.T) {
	assert.Equal(t, 0.0, New(-5).Threshold())
	assert.Equal(t, 100.0, New(150).Threshold())
	assert.Equal(t, 80.0, New(80).Threshold())
}

func TestZeroThresholdStillRequiresGrading(t *testing.T) {
	engine := New(0)
	bank := newBank(2)

	result, err := engine.Grade(bank, nil)
	require.NoError(t, err)
	assert.True(t, result.Passed, "score 0 >= threshold 0")
	assert.InDelta(t, 0.0, result.Score, 1e-9)
}
