package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// QuizCache decorates a QuizRepository with a Redis read cache for the hot
// GetByID path. Entries carry a jittered TTL to spread expirations; cache
// refills are collapsed through singleflight so a popular quiz falling out of
// cache causes one database read, not a stampede. Every write path delegates
// to the inner repository and drops the cached entry.
type QuizCache struct {
	app.QuizRepository

	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuizCache(inner app.QuizRepository, client *redis.Client, ttl time.Duration) *QuizCache {
	return &QuizCache{
		QuizRepository: inner,
		client:         client,
		ttl:            ttl,
	}
}

// cachedQuiz carries the author alongside the quiz; the Author relation is
// excluded from the quiz's own JSON shape.
type cachedQuiz struct {
	Quiz   domain.Quiz  `json:"quiz"`
	Author *domain.User `json:"author"`
}

func (c *QuizCache) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	if quiz, ok := c.lookup(ctx, id); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// re-check in case another goroutine filled the cache
		if quiz, ok := c.lookup(ctx, id); ok {
			return quiz, nil
		}
		quiz, err := c.QuizRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.fill(ctx, id, quiz)
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Quiz), nil
}

func (c *QuizCache) lookup(ctx context.Context, id string) (*domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("quiz cache read %s: %v", id, err)
		}
		return nil, false
	}
	var entry cachedQuiz
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	entry.Quiz.Author = entry.Author
	return &entry.Quiz, true
}

func (c *QuizCache) fill(ctx context.Context, id string, quiz *domain.Quiz) {
	raw, err := json.Marshal(cachedQuiz{Quiz: *quiz, Author: quiz.Author})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(id), raw, c.ttlWithJitter()).Err(); err != nil {
		log.Printf("quiz cache fill %s: %v", id, err)
	}
}

func (c *QuizCache) Update(ctx context.Context, quiz *domain.Quiz) error {
	if err := c.QuizRepository.Update(ctx, quiz); err != nil {
		return err
	}
	c.invalidate(ctx, quiz.ID)
	return nil
}

func (c *QuizCache) Delete(ctx context.Context, id string) error {
	if err := c.QuizRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *QuizCache) ToggleLike(ctx context.Context, quizID, userID string) (bool, error) {
	liked, err := c.QuizRepository.ToggleLike(ctx, quizID, userID)
	if err != nil {
		return false, err
	}
	c.invalidate(ctx, quizID)
	return liked, nil
}

func (c *QuizCache) ToggleSave(ctx context.Context, quizID, userID string) (bool, error) {
	saved, err := c.QuizRepository.ToggleSave(ctx, quizID, userID)
	if err != nil {
		return false, err
	}
	c.invalidate(ctx, quizID)
	return saved, nil
}

func (c *QuizCache) RecordView(ctx context.Context, quizID, userID string) error {
	if err := c.QuizRepository.RecordView(ctx, quizID, userID); err != nil {
		return err
	}
	c.invalidate(ctx, quizID)
	return nil
}

func (c *QuizCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		log.Printf("quiz cache invalidate %s: %v", id, err)
	}
}

func (c *QuizCache) key(id string) string {
	return "quiz:" + id + ":json"
}

// ttlWithJitter spreads expirations over an extra 10% of the base TTL. The
// package-level rand source is locked, so concurrent fills are safe.
func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
