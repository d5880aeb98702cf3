package payments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no payment matches the requested id.
	ErrNotFound = errors.New("payment not found")

	// ErrEvidenceNotFound is returned when a payment has no evidence reference
	// or the referenced file is gone.
	ErrEvidenceNotFound = errors.New("evidence file not found")

	// ErrMissingColumn is returned when an import file lacks a mandatory column.
	ErrMissingColumn = errors.New("missing mandatory column")
)

// ValidationError carries every field-level violation found in a payload.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// MalformedInputError covers requests that cannot be interpreted at all:
// unparseable ids, unsupported file types, missing upload parts.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return e.Reason
}

func Malformed(format string, args ...interface{}) *MalformedInputError {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps an opaque failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps err as a StorageError unless it is nil or already
// one of the package's own errors.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// BatchError aborts a whole import. Row is the 1-based line number in the
// source file counting the header, or 0 when the failure is not row specific.
type BatchError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *BatchError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("import aborted: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("import aborted at row %d: %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
