// Package service provides business logic for the application.
package service

import (
	"errors"

	"github.com/medicare/medicare-api/internal/metrics"
	"github.com/medicare/medicare-api/internal/repository"
)

// Service errors.
var (
	ErrMedicineNotFound   = errors.New("medicine not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a request that is missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// recordStorageError counts storage failures by operation and returns err unchanged.
func recordStorageError(recorder metrics.Recorder, err error) error {
	var storageErr *repository.StorageError
	if errors.As(err, &storageErr) {
		recorder.IncStorageError(storageErr.Op)
	}
	return err
}
