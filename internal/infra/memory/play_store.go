package memory

import (
	"context"
	"encoding/json"
	"sync"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// PlayStore keeps in-flight play-throughs per token, JSON-copied like the
// Redis variant.
type PlayStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewPlayStore() *PlayStore {
	return &PlayStore{sessions: make(map[string][]byte)}
}

func (s *PlayStore) Get(_ context.Context, token string) (*app.PlaySession, error) {
	s.mu.RLock()
	raw, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrPlayNotFound
	}
	session := new(app.PlaySession)
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *PlayStore) Put(_ context.Context, token string, session *app.PlaySession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = raw
	return nil
}

func (s *PlayStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
