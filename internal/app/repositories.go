package app

import (
	"context"

	"quizhub/internal/domain"
	"quizhub/internal/draft"
	"quizhub/internal/play"
)

// PageSize is the fixed page size of the search and popularity feeds.
const PageSize = 8

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// QuizRepository stores quizzes, their like/save relations and view records.
// Implementations must keep the denormalized counters in lockstep with the
// relation rows: toggles and view recording are single atomic updates.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	// GetByID returns the quiz with its author loaded.
	GetByID(ctx context.Context, id string) (*domain.Quiz, error)
	Update(ctx context.Context, quiz *domain.Quiz) error
	// Delete removes the quiz and all dependent view/like/save/result rows.
	Delete(ctx context.Context, id string) error
	// ToggleLike flips membership of userID in the quiz's like relation and
	// recomputes the counter in the same transaction. It reports the new
	// membership state.
	ToggleLike(ctx context.Context, quizID, userID string) (bool, error)
	ToggleSave(ctx context.Context, quizID, userID string) (bool, error)
	// Marks reports whether userID has liked and saved the quiz.
	Marks(ctx context.Context, quizID, userID string) (liked, saved bool, err error)
	// RecordView inserts a view row and increments the view counter. Callers
	// are responsible for deduplication via a ViewLimiter.
	RecordView(ctx context.Context, quizID, userID string) error
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Quiz, error)
	ListLikedBy(ctx context.Context, userID string) ([]domain.Quiz, error)
	ListSavedBy(ctx context.Context, userID string) ([]domain.Quiz, error)
	// ListViewsBy returns the user's viewing history, newest first, one entry
	// per quiz, with the quiz and its author loaded.
	ListViewsBy(ctx context.Context, userID string) ([]domain.View, error)
}

// QuizSearcher serves the keyword and popularity feeds with cursor pagination.
// The cursor is the id of the last row of the previous page; an empty next
// cursor means the feed is exhausted.
type QuizSearcher interface {
	Search(ctx context.Context, query, cursor string, limit int) ([]domain.Quiz, string, error)
	Popular(ctx context.Context, cursor string, limit int) ([]domain.Quiz, string, error)
}

// ResultRepository stores completed play-throughs.
type ResultRepository interface {
	// Create persists the result and increments the quiz's result counter.
	Create(ctx context.Context, result *domain.Result) error
	// GetByID returns the result with its user, quiz and quiz author loaded.
	GetByID(ctx context.Context, id string) (*domain.Result, error)
	ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Result, error)
}

// SessionStore maps opaque session tokens to user ids, with expiry.
type SessionStore interface {
	Put(ctx context.Context, token, userID string) error
	// Get returns domain.ErrUnauthorized for unknown or expired tokens.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// ViewLimiter reserves the right to count one view per user per quiz within
// the dedup window. Reserve must be atomic: of two concurrent calls for the
// same pair, exactly one wins.
type ViewLimiter interface {
	Reserve(ctx context.Context, userID, quizID string) (bool, error)
}

// DraftStore keeps each user's in-progress authoring draft, best-effort and
// TTL-bound.
type DraftStore interface {
	// Get returns domain.ErrDraftNotFound when nothing is stored.
	Get(ctx context.Context, owner string) (*draft.Draft, error)
	Put(ctx context.Context, owner string, d *draft.Draft) error
	Delete(ctx context.Context, owner string) error
}

// PlaySession is a play-through bound to the user who started it.
type PlaySession struct {
	Owner string           `json:"owner"`
	Play  play.Playthrough `json:"play"`
}

// PlayStore keeps in-flight play-throughs under opaque tokens, TTL-bound.
type PlayStore interface {
	// Get returns domain.ErrPlayNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*PlaySession, error)
	Put(ctx context.Context, token string, session *PlaySession) error
	Delete(ctx context.Context, token string) error
}
