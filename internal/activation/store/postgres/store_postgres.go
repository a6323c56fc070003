package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
	"taskgate/pkg/requestcontext"
	"taskgate/pkg/sentinel"
)

// Store persists activation records in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE activation_records (
//	    user_id                   UUID PRIMARY KEY,
//	    role                      TEXT NOT NULL,
//	    profile_completed         BOOLEAN NOT NULL DEFAULT FALSE,
//	    training_completed        BOOLEAN NOT NULL DEFAULT FALSE,
//	    training_progress_percent INT NOT NULL DEFAULT 0,
//	    quiz_passed               BOOLEAN NOT NULL DEFAULT FALSE,
//	    last_quiz_attempt_id      UUID,
//	    last_quiz_score           DOUBLE PRECISION,
//	    last_quiz_passed          BOOLEAN,
//	    last_quiz_attempted_at    TIMESTAMPTZ,
//	    bank_details_added        BOOLEAN NOT NULL DEFAULT FALSE,
//	    payment_method_added      BOOLEAN NOT NULL DEFAULT FALSE,
//	    onboarding_completed      BOOLEAN NOT NULL DEFAULT FALSE,
//	    version                   BIGINT NOT NULL,
//	    updated_at                TIMESTAMPTZ NOT NULL
//	);
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a PostgreSQL-backed record store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const selectColumns = `
	user_id, role, profile_completed, training_completed, training_progress_percent,
	quiz_passed, last_quiz_attempt_id, last_quiz_score, last_quiz_passed, last_quiz_attempted_at,
	bank_details_added, payment_method_added, onboarding_completed, version, updated_at`

func (s *Store) Get(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM activation_records WHERE user_id = $1`, selectColumns)
	row := s.pool.QueryRow(ctx, query, uuid.UUID(userID))

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activation record: %w", err)
	}
	return record, nil
}

func (s *Store) Save(ctx context.Context, record *models.ActivationRecord, expectedVersion int64) error {
	now := requestcontext.Now(ctx)

	if expectedVersion == 0 {
		return s.insert(ctx, record, now)
	}
	return s.update(ctx, record, expectedVersion, now)
}

func (s *Store) insert(ctx context.Context, record *models.ActivationRecord, now time.Time) error {
	const query = `
		INSERT INTO activation_records (
			user_id, role, profile_completed, training_completed, training_progress_percent,
			quiz_passed, last_quiz_attempt_id, last_quiz_score, last_quiz_passed, last_quiz_attempted_at,
			bank_details_added, payment_method_added, onboarding_completed, version, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, saveArgs(record, 1, now)...)
	if err != nil {
		return fmt.Errorf("insert activation record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	record.Version = 1
	record.UpdatedAt = now
	return nil
}

func (s *Store) update(ctx context.Context, record *models.ActivationRecord, expectedVersion int64, now time.Time) error {
	const query = `
		UPDATE activation_records SET
			role = $2,
			profile_completed = $3,
			training_completed = $4,
			training_progress_percent = $5,
			quiz_passed = $6,
			last_quiz_attempt_id = $7,
			last_quiz_score = $8,
			last_quiz_passed = $9,
			last_quiz_attempted_at = $10,
			bank_details_added = $11,
			payment_method_added = $12,
			onboarding_completed = $13,
			version = $14,
			updated_at = $15
		WHERE user_id = $1 AND version = $16`

	args := append(saveArgs(record, expectedVersion+1, now), expectedVersion)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update activation record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a stale version from a missing row.
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM activation_records WHERE user_id = $1)`,
			uuid.UUID(record.UserID)).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check activation record existence: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	record.Version = expectedVersion + 1
	record.UpdatedAt = now
	return nil
}

func saveArgs(record *models.ActivationRecord, version int64, now time.Time) []any {
	var (
		attemptID   *uuid.UUID
		score       *float64
		passed      *bool
		attemptedAt *time.Time
	)
	if a := record.LastQuizAttempt; a != nil {
		u := uuid.UUID(a.AttemptID)
		attemptID = &u
		score = &a.Score
		passed = &a.Passed
		attemptedAt = &a.AttemptedAt
	}
	return []any{
		uuid.UUID(record.UserID),
		string(record.Role),
		record.ProfileCompleted,
		record.TrainingCompleted,
		record.TrainingProgressPercent,
		record.QuizPassed,
		attemptID,
		score,
		passed,
		attemptedAt,
		record.BankDetailsAdded,
		record.PaymentMethodAdded,
		record.OnboardingCompleted,
		version,
		now,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ActivationRecord, error) {
	var (
		record      models.ActivationRecord
		userID      uuid.UUID
		role        string
		attemptID   *uuid.UUID
		score       *float64
		passed      *bool
		attemptedAt *time.Time
	)
	err := row.Scan(
		&userID, &role,
		&record.ProfileCompleted, &record.TrainingCompleted, &record.TrainingProgressPercent,
		&record.QuizPassed, &attemptID, &score, &passed, &attemptedAt,
		&record.BankDetailsAdded, &record.PaymentMethodAdded, &record.OnboardingCompleted,
		&record.Version, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.UserID = id.UserID(userID)
	record.Role = models.Role(role)
	if attemptID != nil && score != nil && passed != nil && attemptedAt != nil {
		record.LastQuizAttempt = &models.QuizAttemptResult{
			AttemptID:   id.AttemptID(*attemptID),
			Score:       *score,
			Passed:      *passed,
			AttemptedAt: *attemptedAt,
		}
	}
	return &record, nil
}
