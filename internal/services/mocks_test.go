package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/pkg/mail"
)

// MockTransport is a mock implementation of mail.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransport) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// blockingTransport never answers until ctx is done
type blockingTransport struct{}

func (blockingTransport) Verify(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingTransport) Send(ctx context.Context, _ mail.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

// MockLimiter is a mock implementation of services.RateLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(identity string) bool {
	args := m.Called(identity)
	return args.Bool(0)
}

// panickingValidator simulates a bug inside the pipeline
type panickingValidator struct{}

func (panickingValidator) Validate([]byte) (models.ContactMessage, error) {
	panic("boom")
}

// MockProjectFetcher is a mock implementation of services.ProjectFetcher
type MockProjectFetcher struct {
	mock.Mock
}

func (m *MockProjectFetcher) GetProject(ctx context.Context, ref models.RepoRef) *models.Project {
	args := m.Called(ctx, ref)
	if fn, ok := args.Get(0).(func(context.Context, models.RepoRef) *models.Project); ok {
		return fn(ctx, ref)
	}
	return args.Get(0).(*models.Project)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
