package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// QuizRepository is the in-memory quiz store. It also serves the search and
// popularity feeds, so in memory mode it stands in for both the bun
// repository and the pgx reader.
type QuizRepository struct {
	users *UserRepository

	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	likes   map[string]map[string]time.Time
	saves   map[string]map[string]time.Time
	views   []domain.View
	clock   func() time.Time
}

func NewQuizRepository(users *UserRepository) *QuizRepository {
	return &QuizRepository{
		users:   users,
		quizzes: make(map[string]domain.Quiz),
		likes:   make(map[string]map[string]time.Time),
		saves:   make(map[string]map[string]time.Time),
		clock:   time.Now,
	}
}

func (r *QuizRepository) Create(_ context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *QuizRepository) GetByID(_ context.Context, id string) (*domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	return r.withAuthor(quiz), nil
}

func (r *QuizRepository) Update(_ context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	stored.Title = quiz.Title
	stored.Description = quiz.Description
	stored.Questions = quiz.Questions
	stored.UpdatedAt = quiz.UpdatedAt
	r.quizzes[quiz.ID] = stored
	return nil
}

func (r *QuizRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(r.quizzes, id)
	delete(r.likes, id)
	delete(r.saves, id)
	kept := r.views[:0]
	for _, v := range r.views {
		if v.QuizID != id {
			kept = append(kept, v)
		}
	}
	r.views = kept
	return nil
}

func (r *QuizRepository) ToggleLike(_ context.Context, quizID, userID string) (bool, error) {
	return r.toggle(r.likes, quizID, userID, func(q *domain.Quiz, n int) { q.LikesCount = n })
}

func (r *QuizRepository) ToggleSave(_ context.Context, quizID, userID string) (bool, error) {
	return r.toggle(r.saves, quizID, userID, func(q *domain.Quiz, n int) { q.SavesCount = n })
}

func (r *QuizRepository) toggle(marks map[string]map[string]time.Time, quizID, userID string, setCount func(*domain.Quiz, int)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return false, domain.ErrQuizNotFound
	}
	set := marks[quizID]
	if set == nil {
		set = make(map[string]time.Time)
		marks[quizID] = set
	}
	active := false
	if _, ok := set[userID]; ok {
		delete(set, userID)
	} else {
		set[userID] = r.clock()
		active = true
	}
	setCount(&quiz, len(set))
	r.quizzes[quizID] = quiz
	return active, nil
}

func (r *QuizRepository) Marks(_ context.Context, quizID, userID string) (bool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, liked := r.likes[quizID][userID]
	_, saved := r.saves[quizID][userID]
	return liked, saved, nil
}

func (r *QuizRepository) RecordView(_ context.Context, quizID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	r.views = append(r.views, domain.View{
		ID:        uuid.NewString(),
		UserID:    userID,
		QuizID:    quizID,
		CreatedAt: r.clock(),
	})
	quiz.ViewsCount++
	r.quizzes[quizID] = quiz
	return nil
}

func (r *QuizRepository) ListByAuthor(_ context.Context, authorID string) ([]domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Quiz
	for _, quiz := range r.quizzes {
		if quiz.AuthorID == authorID {
			out = append(out, *r.withAuthor(quiz))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *QuizRepository) ListLikedBy(_ context.Context, userID string) ([]domain.Quiz, error) {
	return r.listMarked(r.likes, userID)
}

func (r *QuizRepository) ListSavedBy(_ context.Context, userID string) ([]domain.Quiz, error) {
	return r.listMarked(r.saves, userID)
}

func (r *QuizRepository) listMarked(marks map[string]map[string]time.Time, userID string) ([]domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type marked struct {
		quiz domain.Quiz
		at   time.Time
	}
	var hits []marked
	for quizID, set := range marks {
		at, ok := set[userID]
		if !ok {
			continue
		}
		if quiz, ok := r.quizzes[quizID]; ok {
			hits = append(hits, marked{quiz: *r.withAuthor(quiz), at: at})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].at.After(hits[j].at) })
	out := make([]domain.Quiz, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.quiz)
	}
	return out, nil
}

func (r *QuizRepository) ListViewsBy(_ context.Context, userID string) ([]domain.View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []domain.View
	// appended chronologically, walk backwards for newest first
	for i := len(r.views) - 1; i >= 0; i-- {
		v := r.views[i]
		if v.UserID != userID || seen[v.QuizID] {
			continue
		}
		quiz, ok := r.quizzes[v.QuizID]
		if !ok {
			continue
		}
		seen[v.QuizID] = true
		v.Quiz = r.withAuthor(quiz)
		out = append(out, v)
	}
	return out, nil
}

// Search implements the keyword feed: case-insensitive substring match on
// title and description, id-ascending, cursor inclusive.
func (r *QuizRepository) Search(_ context.Context, query, cursor string, limit int) ([]domain.Quiz, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(query)
	var matches []domain.Quiz
	for _, quiz := range r.quizzes {
		if !strings.Contains(strings.ToLower(quiz.Title), needle) &&
			!strings.Contains(strings.ToLower(quiz.Description), needle) {
			continue
		}
		if cursor != "" && quiz.ID < cursor {
			continue
		}
		matches = append(matches, *r.withAuthor(quiz))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return page(matches, limit)
}

// Popular implements the popularity feed: likes+views descending with id as
// tiebreak, cursor inclusive.
func (r *QuizRepository) Popular(_ context.Context, cursor string, limit int) ([]domain.Quiz, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pop := func(q domain.Quiz) int { return q.LikesCount + q.ViewsCount }

	var all []domain.Quiz
	for _, quiz := range r.quizzes {
		all = append(all, *r.withAuthor(quiz))
	}
	sort.Slice(all, func(i, j int) bool {
		if pop(all[i]) != pop(all[j]) {
			return pop(all[i]) > pop(all[j])
		}
		return all[i].ID < all[j].ID
	})

	if cursor != "" {
		from := -1
		for i := range all {
			if all[i].ID == cursor {
				from = i
				break
			}
		}
		if from == -1 {
			return nil, "", nil
		}
		all = all[from:]
	}
	return page(all, limit)
}

func page(quizzes []domain.Quiz, limit int) ([]domain.Quiz, string, error) {
	next := ""
	if len(quizzes) > limit {
		next = quizzes[limit].ID
		quizzes = quizzes[:limit]
	}
	return quizzes, next, nil
}

func (r *QuizRepository) withAuthor(quiz domain.Quiz) *domain.Quiz {
	if user, err := r.users.GetByID(context.Background(), quiz.AuthorID); err == nil {
		quiz.Author = user
	}
	return &quiz
}
