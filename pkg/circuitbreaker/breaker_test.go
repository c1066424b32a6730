package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ReturnsTypedResult(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))

	got, err := Execute(cb, func() (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.Timeout = time.Minute
	cb := NewCircuitBreaker(cfg)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := Execute(cb, func() (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	}

	_, err := Execute(cb, func() (string, error) { return "never", nil })
	assert.True(t, IsRejected(err))
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestExecute_IsSuccessfulKeepsBreakerClosed(t *testing.T) {
	expected := errors.New("not found")
	cfg := DefaultConfig("test")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, expected) }
	cb := NewCircuitBreaker(cfg)

	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, expected })
		assert.ErrorIs(t, err, expected)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsRejected(t *testing.T) {
	assert.True(t, IsRejected(gobreaker.ErrOpenState))
	assert.True(t, IsRejected(gobreaker.ErrTooManyRequests))
	assert.False(t, IsRejected(errors.New("other")))
}
