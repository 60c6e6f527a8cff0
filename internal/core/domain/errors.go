package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown and malformed identifiers alike.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a duplicate-detection key collides with
	// an existing record.
	ErrDuplicate = errors.New("record already exists")
	// ErrUnauthorized is returned when the policy denies an operation.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrInvalidCredentials is the single undifferentiated login failure.
	// Unknown username, wrong password and privileged-credential mismatch are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTooManyAttempts is returned when the login throttle trips.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	// ErrEmptyUpdate is returned when an update names no writable fields.
	ErrEmptyUpdate = errors.New("no updatable fields provided")
)

// ValidationError reports a required field that is missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
