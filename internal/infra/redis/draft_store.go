package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub/internal/domain"
	"quizhub/internal/draft"
)

// DraftStore keeps each user's authoring draft as a JSON blob with a TTL.
// Best-effort: an expired draft simply means starting over.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func (s *DraftStore) Get(ctx context.Context, owner string) (*draft.Draft, error) {
	raw, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	d := new(draft.Draft)
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return d, nil
}

func (s *DraftStore) Put(ctx context.Context, owner string, d *draft.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(owner), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *DraftStore) key(owner string) string {
	return "draft:" + owner
}
