package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound marks a referenced task, category or notification that does not
// exist or is not owned by the caller.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected domain constraint on a single field.
// It is always caller-recoverable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// notFound maps the store's record-not-found onto ErrNotFound so callers can
// test with errors.Is without importing gorm.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
