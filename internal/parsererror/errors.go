package parsererror

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages. Match with errors.Is.
var (
	ErrParseFailure        = errors.New("statement could not be parsed")
	ErrFileNotFound        = errors.New("uploaded file not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmptyPattern        = errors.New("rule pattern cannot be empty")
)

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

// Unwrap exposes the cause. ParseFailure callers match ErrParseFailure through it.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseFailure wraps cause so that errors.Is(err, ErrParseFailure) holds.
func NewParseFailure(parser, field, value string, cause error) *ParseError {
	if cause == nil {
		cause = ErrParseFailure
	} else {
		cause = fmt.Errorf("%w: %w", ErrParseFailure, cause)
	}
	return &ParseError{Parser: parser, Field: field, Value: value, Err: cause}
}

// PersistenceError is returned when a storage backend fails to load or save state.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}
