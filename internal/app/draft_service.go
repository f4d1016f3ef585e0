package app

import (
	"context"
	"errors"

	"quizhub/internal/domain"
	"quizhub/internal/draft"
)

// DraftService keeps one authoring draft per user so an in-progress quiz
// survives accidental navigation. Storage is best-effort with a TTL, not a
// durability guarantee.
type DraftService struct {
	drafts DraftStore
}

func NewDraftService(drafts DraftStore) *DraftService {
	return &DraftService{drafts: drafts}
}

// Get returns the stored draft, or a fresh minimal one when nothing is stored.
func (s *DraftService) Get(ctx context.Context, actorID string) (*draft.Draft, error) {
	d, err := s.drafts.Get(ctx, actorID)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return draft.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Put stores the draft after checking its structural bounds; content may
// still be incomplete.
func (s *DraftService) Put(ctx context.Context, actorID string, d *draft.Draft) error {
	if err := d.CheckShape(); err != nil {
		return err
	}
	return s.drafts.Put(ctx, actorID, d)
}

// Delete discards the stored draft, typically after a successful submit.
func (s *DraftService) Delete(ctx context.Context, actorID string) error {
	return s.drafts.Delete(ctx, actorID)
}
