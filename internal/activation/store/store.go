// Package store defines persistence for activation records.
package store

import (
	"context"

	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
)

// RecordStore persists activation records. Implementations return
// sentinel.ErrNotFound for missing records and sentinel.ErrConflict when the
// expected version no longer matches the stored one (stale snapshot).
//
// Save is atomic per call: the record, including the derived
// OnboardingCompleted flag, lands in one write. On success the store bumps
// record.Version to expectedVersion+1 and stamps UpdatedAt.
// expectedVersion 0 means "create"; it conflicts if a record already exists.
type RecordStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error)
	Save(ctx context.Context, record *models.ActivationRecord, expectedVersion int64) error
}
