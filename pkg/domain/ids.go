// Package domain defines the typed identifiers shared across modules.
//
// IDs are distinct UUID-backed types so the compiler catches a user ID being
// passed where an attempt ID belongs. Parse helpers enforce the invariant that
// IDs at trust boundaries are valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "taskgate/pkg/domain-errors"
)

// UserID identifies a principal.
type UserID uuid.UUID

// AttemptID identifies a single graded quiz attempt.
type AttemptID uuid.UUID

// QuestionID identifies a question within a question bank.
type QuestionID uuid.UUID

// NewUserID generates a fresh random user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// NewAttemptID generates a fresh random attempt ID.
func NewAttemptID() AttemptID {
	return AttemptID(uuid.New())
}

// NewQuestionID generates a fresh random question ID.
func NewQuestionID() QuestionID {
	return QuestionID(uuid.New())
}

// ParseUserID parses and validates a user ID string.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

// ParseAttemptID parses and validates an attempt ID string.
func ParseAttemptID(s string) (AttemptID, error) {
	u, err := parseUUID(s)
	return AttemptID(u), err
}

// ParseQuestionID parses and validates a question ID string.
func ParseQuestionID(s string) (QuestionID, error) {
	u, err := parseUUID(s)
	return QuestionID(u), err
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id AttemptID) String() string  { return uuid.UUID(id).String() }
func (id QuestionID) String() string { return uuid.UUID(id).String() }

// Text marshaling keeps IDs as canonical UUID strings in JSON bodies and as
// JSON object keys (answer maps).

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id AttemptID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AttemptID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = AttemptID(u)
	return nil
}

func (id QuestionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *QuestionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = QuestionID(u)
	return nil
}

// IsNil reports whether the ID is the zero value.
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AttemptID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
