package memory

import (
	"context"
	"encoding/json"
	"sync"

	"quizhub/internal/domain"
	"quizhub/internal/draft"
)

// DraftStore keeps authoring drafts per user. Drafts are stored as JSON so
// callers get their own copy, as they would from Redis.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string][]byte)}
}

func (s *DraftStore) Get(_ context.Context, owner string) (*draft.Draft, error) {
	s.mu.RLock()
	raw, ok := s.drafts[owner]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	d := new(draft.Draft)
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DraftStore) Put(_ context.Context, owner string, d *draft.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[owner] = raw
	return nil
}

func (s *DraftStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, owner)
	return nil
}
