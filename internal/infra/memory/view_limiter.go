package memory

import (
	"context"
	"sync"
	"time"
)

// ViewLimiter grants one view per user per quiz per window. The check and the
// reservation happen under one lock, mirroring the atomicity of the Redis
// SET NX variant.
type ViewLimiter struct {
	window time.Duration
	clock  func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewViewLimiter(window time.Duration) *ViewLimiter {
	if window <= 0 {
		window = time.Hour
	}
	return &ViewLimiter{
		window: window,
		clock:  time.Now,
		seen:   make(map[string]time.Time),
	}
}

// NewViewLimiterWithClock is test-only for deterministic windows.
func NewViewLimiterWithClock(window time.Duration, clock func() time.Time) *ViewLimiter {
	l := NewViewLimiter(window)
	l.clock = clock
	return l
}

func (l *ViewLimiter) Reserve(_ context.Context, userID, quizID string) (bool, error) {
	key := userID + ":" + quizID
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if at, ok := l.seen[key]; ok && now.Sub(at) < l.window {
		return false, nil
	}
	l.seen[key] = now
	return true, nil
}
