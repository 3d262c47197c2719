// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrNotFound = errors.New("not found")

	// Matching errors.
	ErrAmbiguousMatch = errors.New("ambiguous match")
	ErrNoMatch        = errors.New("no matching resident")

	// Import errors.
	ErrBadState = errors.New("invalid batch state")
)

// ValidationError reports a required field missing or invalid on a
// manual single-entry operation. The operation is aborted before any
// write and the error is surfaced to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ParseError reports an unparseable value on an import row. Rows with
// parse errors are skipped or defaulted; the batch continues.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q", e.Field, e.Value)
}
