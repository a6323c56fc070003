package models

import (
	"strings"
	"time"

	activation "taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
)

// User is the primary identity tracked by the gate. The password hash never
// leaves the store layer in responses.
type User struct {
	ID           id.UserID
	Email        string
	FirstName    string
	LastName     string
	Role         activation.Role
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser validates invariants and builds a user. The password must already
// be hashed by the caller.
func NewUser(userID id.UserID, email string, role activation.Role, passwordHash string, now time.Time) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email must be a valid address")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash must not be empty")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id must not be nil")
	}
	return &User{
		ID:           userID,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}
