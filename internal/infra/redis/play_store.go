package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// PlayStore keeps in-flight play-throughs as JSON blobs under their tokens.
// The TTL bounds how long an abandoned play session lingers; expiry loses the
// accumulated answers, matching the in-memory-only nature of a play session.
type PlayStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlayStore(client *redis.Client, ttl time.Duration) *PlayStore {
	return &PlayStore{client: client, ttl: ttl}
}

func (s *PlayStore) Get(ctx context.Context, token string) (*app.PlaySession, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPlayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load play session: %w", err)
	}
	session := new(app.PlaySession)
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("unmarshal play session: %w", err)
	}
	return session, nil
}

func (s *PlayStore) Put(ctx context.Context, token string, session *app.PlaySession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal play session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store play session: %w", err)
	}
	return nil
}

func (s *PlayStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete play session: %w", err)
	}
	return nil
}

func (s *PlayStore) key(token string) string {
	return "play:" + token
}
