//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"taskgate/internal/activation/models"
	"taskgate/internal/activation/store/postgres"
	id "taskgate/pkg/domain"
	"taskgate/pkg/sentinel"
	"taskgate/pkg/testutil/containers"
)

const schema = `
CREATE TABLE IF NOT EXISTS activation_records (
    user_id                   UUID PRIMARY KEY,
    role                      TEXT NOT NULL,
    profile_completed         BOOLEAN NOT NULL DEFAULT FALSE,
    training_completed        BOOLEAN NOT NULL DEFAULT FALSE,
    training_progress_percent INT NOT NULL DEFAULT 0,
    quiz_passed               BOOLEAN NOT NULL DEFAULT FALSE,
    last_quiz_attempt_id      UUID,
    last_quiz_score           DOUBLE PRECISION,
    last_quiz_passed          BOOLEAN,
    last_quiz_attempted_at    TIMESTAMPTZ,
    bank_details_added        BOOLEAN NOT NULL DEFAULT FALSE,
    payment_method_added      BOOLEAN NOT NULL DEFAULT FALSE,
    onboarding_completed      BOOLEAN NOT NULL DEFAULT FALSE,
    version                   BIGINT NOT NULL,
    updated_at                TIMESTAMPTZ NOT NULL
);`

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T(), schema)
	s.store = postgres.New(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx, "activation_records"))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	record := models.NewRecord(id.NewUserID(), models.RoleDoer)
	record.ProfileCompleted = true
	record.TrainingProgressPercent = 40
	record.LastQuizAttempt = &models.QuizAttemptResult{
		AttemptID:   id.NewAttemptID(),
		Score:       70,
		Passed:      false,
		AttemptedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	s.Require().NoError(s.store.Save(s.ctx, record, 0))
	s.Equal(int64(1), record.Version)

	got, err := s.store.Get(s.ctx, record.UserID)
	s.Require().NoError(err)
	s.Equal(record.UserID, got.UserID)
	s.Equal(models.RoleDoer, got.Role)
	s.True(got.ProfileCompleted)
	s.Equal(40, got.TrainingProgressPercent)
	s.Require().NotNil(got.LastQuizAttempt)
	s.InDelta(70.0, got.LastQuizAttempt.Score, 1e-9)
	s.False(got.LastQuizAttempt.Passed)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, id.NewUserID())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestVersionConflicts() {
	record := models.NewRecord(id.NewUserID(), models.RoleDoer)
	s.Require().NoError(s.store.Save(s.ctx, record, 0))

	s.Run("duplicate create conflicts", func() {
		dup := models.NewRecord(record.UserID, models.RoleDoer)
		err := s.store.Save(s.ctx, dup, 0)
		s.True(errors.Is(err, sentinel.ErrConflict))
	})

	s.Run("stale update conflicts and does not land", func() {
		fresh := record.Clone()
		fresh.ProfileCompleted = true
		s.Require().NoError(s.store.Save(s.ctx, fresh, 1))

		stale := record.Clone()
		stale.QuizPassed = true
		err := s.store.Save(s.ctx, stale, 1)
		s.True(errors.Is(err, sentinel.ErrConflict))

		got, err := s.store.Get(s.ctx, record.UserID)
		s.Require().NoError(err)
		s.True(got.ProfileCompleted)
		s.False(got.QuizPassed)
		s.Equal(int64(2), got.Version)
	})

	s.Run("update of missing record reports not found", func() {
		ghost := models.NewRecord(id.NewUserID(), models.RoleDoer)
		err := s.store.Save(s.ctx, ghost, 5)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})
}
