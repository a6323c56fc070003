package store

import (
	"context"
	"testing"

	activation "taskgate/internal/activation/models"
	"taskgate/internal/identity/models"
	id "taskgate/pkg/domain"
	"taskgate/pkg/sentinel"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newUser(email string) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Email:        email,
		Role:         activation.RoleDoer,
		PasswordHash: "hash",
	}
}

func (s *MemoryStoreSuite) TestLookupBehavior() {
	s.Run("returns user by ID when exists", func() {
		user := s.newUser("jane.doe@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByID(context.Background(), user.ID)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("returns user by email case-insensitively", func() {
		user := s.newUser("email.lookup@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByEmail(context.Background(), "Email.Lookup@Example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound when user ID does not exist", func() {
		_, err := s.store.FindByID(context.Background(), id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email with ErrConflict", func() {
		s.Require().NoError(s.store.Create(context.Background(), s.newUser("dup@example.com")))

		err := s.store.Create(context.Background(), s.newUser("DUP@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *MemoryStoreSuite) TestMutationIsolation() {
	s.Run("mutating a returned user does not affect the store", func() {
		user := s.newUser("isolated@example.com")
		s.Require().NoError(s.store.Create(context.Background(), user))

		found, err := s.store.FindByID(context.Background(), user.ID)
		s.Require().NoError(err)
		found.Email = "changed@example.com"

		again, err := s.store.FindByID(context.Background(), user.ID)
		s.Require().NoError(err)
		s.Equal("isolated@example.com", again.Email)
	})
}
