package service

import "errors"

var (
	// ErrValidation marks input rejected before any state changed.
	ErrValidation = errors.New("validation failed")
	// ErrQuoteNotFound is returned by background work addressing a quote that no longer exists.
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrIllegalTransition marks an action the quote's status does not allow.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// ValidationError carries a user-facing reason. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(reason string) error { return &ValidationError{Reason: reason} }

// IllegalActionError carries the user-facing reason an action was refused.
// errors.Is(err, ErrIllegalTransition) holds.
type IllegalActionError struct {
	Message string
}

func (e *IllegalActionError) Error() string { return e.Message }

func (e *IllegalActionError) Is(target error) bool { return target == ErrIllegalTransition }
