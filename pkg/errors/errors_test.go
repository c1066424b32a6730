package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "name", Message: "Name must be at least 2 characters"},
		{Field: "email", Message: "Invalid email address"},
	})

	assert.True(t, Is(err, ErrValidationFailed))
	assert.False(t, Is(err, ErrTransportFailure))

	wrapped := fmt.Errorf("submit: %w", err)
	ve, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, err.Error(), "name: Name must be at least 2 characters")
	assert.Contains(t, err.Error(), "email: Invalid email address")
}

func TestValidationError_NoFieldName(t *testing.T) {
	err := NewValidationError([]FieldError{{Message: "Expected object"}})
	assert.Equal(t, "validation failed: Expected object", err.Error())
}

func TestTransportFailure_KeepsCause(t *testing.T) {
	err := TransportFailure(context.DeadlineExceeded)

	assert.True(t, Is(err, ErrTransportFailure))
	assert.True(t, Is(err, context.DeadlineExceeded))
	_, ok := AsValidation(err)
	assert.False(t, ok)
}

func TestInternalError(t *testing.T) {
	err := InternalError("read body")
	assert.True(t, Is(err, ErrInternal))
	assert.Equal(t, "read body: internal error", err.Error())
}
