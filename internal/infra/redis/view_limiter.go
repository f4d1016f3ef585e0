package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultViewWindow is the rolling dedup window for view counting.
const DefaultViewWindow = time.Hour

// ViewLimiter grants at most one view per user per quiz per window. The
// reservation is a single SET NX EX, so of two concurrent opens exactly one
// counts; the original read-then-insert check could double-count.
type ViewLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewViewLimiter(client *redis.Client, window time.Duration) *ViewLimiter {
	if window <= 0 {
		window = DefaultViewWindow
	}
	return &ViewLimiter{client: client, window: window}
}

func (l *ViewLimiter) Reserve(ctx context.Context, userID, quizID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(userID, quizID), "1", l.window).Result()
	if err != nil {
		return false, fmt.Errorf("reserve view: %w", err)
	}
	return ok, nil
}

func (l *ViewLimiter) key(userID, quizID string) string {
	return "view:" + userID + ":" + quizID
}
