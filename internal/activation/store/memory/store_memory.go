package memory

import (
	"context"
	"sync"

	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
	"taskgate/pkg/requestcontext"
	"taskgate/pkg/sentinel"
)

// Store implements store.RecordStore with an in-memory map. Used in tests
// and local development without Postgres.
type Store struct {
	mu      sync.RWMutex
	records map[id.UserID]*models.ActivationRecord
}

// New creates an empty in-memory record store.
func New() *Store {
	return &Store{records: make(map[id.UserID]*models.ActivationRecord)}
}

// Get returns a deep copy so callers hold a snapshot, never shared state.
func (s *Store) Get(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

// Save applies the record if expectedVersion matches the stored version.
func (s *Store) Save(ctx context.Context, record *models.ActivationRecord, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.records[record.UserID]
	switch {
	case !exists && expectedVersion != 0:
		return sentinel.ErrNotFound
	case exists && current.Version != expectedVersion:
		return sentinel.ErrConflict
	}

	record.Version = expectedVersion + 1
	record.UpdatedAt = requestcontext.Now(ctx)
	s.records[record.UserID] = record.Clone()
	return nil
}
