package source

import (
	"context"
	"sync"

	"taskgate/internal/quiz/models"
	"taskgate/pkg/sentinel"
)

// MemorySource holds question banks in memory. Used in tests and in
// deployments that ship quiz content with the binary.
type MemorySource struct {
	mu    sync.RWMutex
	banks map[string]*models.Bank
}

// NewMemory creates an empty in-memory question source.
func NewMemory() *MemorySource {
	return &MemorySource{banks: make(map[string]*models.Bank)}
}

// Put registers or replaces a bank.
func (s *MemorySource) Put(bank *models.Bank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[bank.QuizID] = bank
}

// Bank returns a copy of the stored bank so callers cannot mutate content.
func (s *MemorySource) Bank(ctx context.Context, quizID string) (*models.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bank, ok := s.banks[quizID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := &models.Bank{
		QuizID:    bank.QuizID,
		Questions: make([]models.Question, len(bank.Questions)),
	}
	copy(out.Questions, bank.Questions)
	return out, nil
}
