package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Contact submission error taxonomy. Anything that does not match one of
// these is treated as an unexpected failure.

var (
	// ErrRateLimitExceeded indicates the caller used up its submission window
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrValidationFailed indicates the payload failed structural or length checks
	ErrValidationFailed = errors.New("validation failed")

	// ErrTransportUnconfigured indicates the mail transport has no host or credentials
	ErrTransportUnconfigured = errors.New("mail transport not configured")

	// ErrTransportFailure indicates the mail transport was reached but failed
	ErrTransportFailure = errors.New("mail transport failure")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// FieldError is a single failing field with a human readable reason.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrValidationFailed) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a validation error from the collected field errors
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// TransportFailure wraps a mail transport error so it matches ErrTransportFailure
func TransportFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrTransportFailure, cause)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// AsValidation extracts the validation error from err, if any
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
