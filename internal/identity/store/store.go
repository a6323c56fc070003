// Package store defines persistence for user identities.
package store

import (
	"context"

	"taskgate/internal/identity/models"
	id "taskgate/pkg/domain"
)

// UserStore persists users. Implementations return sentinel.ErrNotFound when
// a user is missing and sentinel.ErrConflict when an email is already taken.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}
