// Package errors provides the error taxonomy shared by the catalog, verse store
// and everything layered on top of them.
//
// Callers never see raw driver errors. Every failure leaving the verse store is
// one of the typed errors below, each of which unwraps to a sentinel so that
// errors.Is works regardless of how much context was added on the way up.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageUnavailable indicates the verse database cannot serve queries:
	// it is missing, corrupt, could not be opened, or has been closed.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoVerseData indicates random sampling found no verse data within its
	// retry budget.
	ErrNoVerseData = errors.New("no verse data found")
	// ErrRowDecode indicates a single result row could not be decoded.
	ErrRowDecode = errors.New("row decode failure")
)

// StorageUnavailableError describes why the verse database cannot be used.
type StorageUnavailableError struct {
	Op   string // Operation that failed (e.g., "materialize", "open", "query")
	Path string // Local database path, if known
	Err  error  // Underlying error, if any
}

func (e *StorageUnavailableError) Error() string {
	msg := "storage unavailable"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports a match against ErrStorageUnavailable while Unwrap exposes the cause.
func (e *StorageUnavailableError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// NoVerseDataError is returned when random sampling gave up.
type NoVerseDataError struct {
	Attempts int
}

func (e *NoVerseDataError) Error() string {
	return fmt.Sprintf("no verse data found after %d attempts", e.Attempts)
}

func (e *NoVerseDataError) Unwrap() error {
	return ErrNoVerseData
}

// RowDecodeError describes one row of a chapter query that could not be decoded.
type RowDecodeError struct {
	Book    int    // Canonical book number queried
	Chapter int    // Chapter queried
	Row     int    // Zero-based row index within the result set
	Reason  string // Short description (e.g., "null verse", "duplicate verse 4")
	Err     error  // Underlying scan error, if any
}

func (e *RowDecodeError) Error() string {
	msg := fmt.Sprintf("row %d of %d:%d: %s", e.Row, e.Book, e.Chapter, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RowDecodeError) Is(target error) bool {
	return target == ErrRowDecode
}

func (e *RowDecodeError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "book", "chapter")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "rename")
	Path      string // File path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error, e.g. a malformed passage reference.
type ParseError struct {
	Format  string // What was being parsed (e.g., "reference", "palette")
	Input   string // Offending input, if short enough to be useful
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("failed to parse %s %q: %s", e.Format, e.Input, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewStorageUnavailable creates a StorageUnavailableError
func NewStorageUnavailable(op, path string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Op: op, Path: path, Err: err}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, input, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Input:   input,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// New wraps errors.New for convenience
func New(text string) error {
	return errors.New(text)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
