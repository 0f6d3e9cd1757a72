package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/questlog/internal/logger"
)

var (
	// ErrValidation marks malformed or rejected input. Nothing was written.
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound marks a reference to a missing habit, task, goal or user.
	ErrNotFound = stderrors.New("not found")
	// ErrConflict marks a write that lost to an existing unique record.
	ErrConflict = stderrors.New("already exists")
	// ErrPersistence marks a store that was unavailable or rejected a write.
	ErrPersistence = stderrors.New("persistence failure")
)

// ValidationError is a user-facing rejection of a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an error wrapping ErrNotFound for the given entity kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Persistence wraps a store failure for operation op. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func IsValidation(err error) bool  { return stderrors.Is(err, ErrValidation) }
func IsNotFound(err error) bool    { return stderrors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return stderrors.Is(err, ErrConflict) }
func IsPersistence(err error) bool { return stderrors.Is(err, ErrPersistence) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
