package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrInvalidInput marks malformed or out-of-domain request data. Nothing was written.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadySubmitted marks a second scored submission for the same user and day.
	ErrAlreadySubmitted = errors.New("already submitted for this date")
	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable marks a transient store failure; the whole operation may be retried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageErr classifies err from the store. Domain errors pass through untouched.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrAlreadySubmitted),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrStorageUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: timed out", op, ErrStorageUnavailable)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
}
