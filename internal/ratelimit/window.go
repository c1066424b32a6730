package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

type record struct {
	count     int
	resetTime time.Time
}

// WindowLimiter admits at most limit requests per identity in a fixed window.
// The window starts at an identity's first admitted request; once its reset
// time has passed the next request starts a fresh window regardless of the
// previous count.
type WindowLimiter struct {
	limit  int
	window time.Duration
	now    Clock

	mu      sync.Mutex
	records map[string]*record
}

// NewWindowLimiter creates a fixed-window limiter. A nil clock uses time.Now.
func NewWindowLimiter(limit int, window time.Duration, clock Clock) *WindowLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &WindowLimiter{
		limit:   limit,
		window:  window,
		now:     clock,
		records: make(map[string]*record),
	}
}

// Allow reports whether identity may proceed and records the admission.
// A rejected call leaves the record untouched.
func (l *WindowLimiter) Allow(identity string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[identity]
	if !ok || now.After(rec.resetTime) {
		l.records[identity] = &record{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	if rec.count >= l.limit {
		return false
	}

	rec.count++
	return true
}

// Sweep drops records whose window has already expired and returns how many were removed
func (l *WindowLimiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for identity, rec := range l.records {
		if now.After(rec.resetTime) {
			delete(l.records, identity)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identities
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// StartJanitor sweeps expired records every interval until ctx is done.
// onSweep, when non-nil, receives the removed and remaining counts.
func (l *WindowLimiter) StartJanitor(ctx context.Context, interval time.Duration, onSweep func(removed, remaining int)) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := l.Sweep()
				if onSweep != nil {
					onSweep(removed, l.Len())
				}
			}
		}
	}()
}
