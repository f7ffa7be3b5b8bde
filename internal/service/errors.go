package service

import (
	"errors"
	"fmt"

	"openrepowiki/internal/storage"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrUnavailable is returned when an optional feature is not configured.
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}


// storageError maps storage.ErrNotFound to ErrNotFound and wraps anything else.
func storageError(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return WrapError(err, msg)
}

// externalError marks err as a failure of a backend this service depends on.
// The result matches both ErrExternalService and err.
func externalError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return WrapError(errors.Join(ErrExternalService, err), msg)
}
