// Package domainerrors provides coded errors for domain and transport layers.
//
// Services return these so handlers can translate them into consistent HTTP
// responses without string matching. Infrastructure facts (not found, conflict)
// live in pkg/sentinel; this package is for validation and policy failures.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport translation and branching.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodeInvalidRequest     Code = "invalid_request"
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal"
	CodeInvariantViolation Code = "invariant_violation"

	// CodeOutOfOrderStep marks a step-completion attempt whose predecessor
	// step is not yet complete. The mutation is rejected wholesale.
	CodeOutOfOrderStep Code = "out_of_order_step"

	// CodeEmptyQuestionBank marks a grading call against a bank with zero
	// questions; the score would be a zero-denominator.
	CodeEmptyQuestionBank Code = "empty_question_bank"

	// CodeStaleRecord marks a save applied to a record snapshot that changed
	// underneath the caller. The caller should refresh and re-attempt.
	CodeStaleRecord Code = "stale_record"
)

// DomainError carries a code, a human-readable message, and an optional cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches two DomainErrors by code and message, so errors.Is can compare
// against a freshly constructed expectation.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a DomainError with no underlying cause.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap annotates an existing error with a code and message.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, or CodeInternal when err is uncoded.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
