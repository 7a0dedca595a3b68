package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the core. Callers wrap them with fmt.Errorf("...: %w")
// and the HTTP layer maps them with errors.Is.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrApplianceUnavailable = errors.New("appliance unavailable")
	ErrNotCancellable       = errors.New("rental cannot be cancelled")
	ErrConflict             = errors.New("conflicting concurrent update")
	ErrValidation           = errors.New("validation error")
	ErrDuplicate            = errors.New("already exists")
	ErrTimeout              = errors.New("operation timed out")
	ErrPaymentUnavailable   = errors.New("payment gateway unavailable")
)

// TransitionError identifies the rejected (from, to) pair.
type TransitionError struct {
	From RentalStatus
	To   RentalStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot move rental from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
