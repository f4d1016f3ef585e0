package memory

import (
	"context"
	"sort"
	"sync"

	"quizhub/internal/domain"
)

// ResultRepository is the in-memory result store. Results whose quiz has been
// deleted are treated as gone, standing in for the SQL ON DELETE CASCADE.
type ResultRepository struct {
	users   *UserRepository
	quizzes *QuizRepository

	mu      sync.RWMutex
	results map[string]domain.Result
}

func NewResultRepository(users *UserRepository, quizzes *QuizRepository) *ResultRepository {
	return &ResultRepository{
		users:   users,
		quizzes: quizzes,
		results: make(map[string]domain.Result),
	}
}

func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) error {
	quiz, err := r.quizzes.GetByID(ctx, result.QuizID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.results[result.ID] = *result
	r.mu.Unlock()

	r.quizzes.mu.Lock()
	stored := r.quizzes.quizzes[quiz.ID]
	stored.ResultsCount++
	r.quizzes.quizzes[quiz.ID] = stored
	r.quizzes.mu.Unlock()
	return nil
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (*domain.Result, error) {
	r.mu.RLock()
	result, ok := r.results[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	loaded, err := r.withRelations(ctx, result)
	if err != nil {
		return nil, domain.ErrResultNotFound
	}
	return loaded, nil
}

func (r *ResultRepository) ListByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	return r.list(ctx, func(result domain.Result) bool { return result.QuizID == quizID })
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return r.list(ctx, func(result domain.Result) bool { return result.UserID == userID })
}

func (r *ResultRepository) list(ctx context.Context, match func(domain.Result) bool) ([]domain.Result, error) {
	r.mu.RLock()
	var hits []domain.Result
	for _, result := range r.results {
		if match(result) {
			hits = append(hits, result)
		}
	}
	r.mu.RUnlock()

	out := make([]domain.Result, 0, len(hits))
	for _, result := range hits {
		loaded, err := r.withRelations(ctx, result)
		if err != nil {
			continue
		}
		out = append(out, *loaded)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ResultRepository) withRelations(ctx context.Context, result domain.Result) (*domain.Result, error) {
	quiz, err := r.quizzes.GetByID(ctx, result.QuizID)
	if err != nil {
		return nil, err
	}
	result.Quiz = quiz
	if user, err := r.users.GetByID(ctx, result.UserID); err == nil {
		result.User = user
	}
	return &result, nil
}
