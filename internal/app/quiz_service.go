package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// QuizService contains the quiz use cases: authoring CRUD, the read path with
// view counting, like/save toggles and the feeds.
type QuizService struct {
	quizzes QuizRepository
	search  QuizSearcher
	views   ViewLimiter
}

func NewQuizService(quizzes QuizRepository, search QuizSearcher, views ViewLimiter) *QuizService {
	return &QuizService{quizzes: quizzes, search: search, views: views}
}

// Create validates the payload and persists a new quiz owned by the actor.
func (s *QuizService) Create(ctx context.Context, actorID string, in domain.QuizInput) (*domain.QuizDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	quiz := &domain.Quiz{
		ID:          uuid.NewString(),
		AuthorID:    actorID,
		Title:       in.Title,
		Description: in.Description,
		Questions:   in.ToQuestions(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return s.authorDetail(ctx, quiz.ID, actorID)
}

// authorDetail is the read-back for the write paths: the author's full
// projection, with no view recorded. Writing a quiz is not a "quiz seen"
// event; views come only from GetByID.
func (s *QuizService) authorDetail(ctx context.Context, id, actorID string) (*domain.QuizDetail, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.QuizDetail{
		QuizCard:  quiz.AsCard(),
		Questions: quiz.PublicQuestions(),
		Source:    quiz.Questions,
	}
	liked, saved, err := s.quizzes.Marks(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	detail.Liked, detail.Saved = liked, saved
	return detail, nil
}

// GetByID returns the quiz projection for the requesting actor. Correctness
// flags are stripped unless the actor is the author, whose copy also carries
// the full questions for the edit form. For authenticated requesters a view
// is recorded at most once per user per quiz per hour; the dedup reservation
// is atomic, so concurrent opens cannot double-count.
func (s *QuizService) GetByID(ctx context.Context, id, actorID string) (*domain.QuizDetail, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.QuizDetail{
		QuizCard:  quiz.AsCard(),
		Questions: quiz.PublicQuestions(),
	}
	if actorID == "" {
		return detail, nil
	}
	if actorID == quiz.AuthorID {
		detail.Source = quiz.Questions
	}

	fresh, err := s.views.Reserve(ctx, actorID, id)
	if err != nil {
		// a broken limiter should not take the read path down
		log.Printf("view reservation for quiz %s failed: %v", id, err)
	} else if fresh {
		if err := s.quizzes.RecordView(ctx, id, actorID); err != nil {
			return nil, err
		}
		detail.ViewsCount++
	}

	liked, saved, err := s.quizzes.Marks(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	detail.Liked, detail.Saved = liked, saved
	return detail, nil
}

// Update overwrites title, description and questions. Only the author may
// edit; anyone else gets domain.ErrForbidden, untouched quiz.
func (s *QuizService) Update(ctx context.Context, actorID, id string, in domain.QuizInput) (*domain.QuizDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	quiz.Title = in.Title
	quiz.Description = in.Description
	quiz.Questions = in.ToQuestions()
	quiz.UpdatedAt = time.Now().UTC()
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return s.authorDetail(ctx, id, actorID)
}

// Delete removes the quiz and its dependent records. Author only.
func (s *QuizService) Delete(ctx context.Context, actorID, id string) error {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz.AuthorID != actorID {
		return domain.ErrForbidden
	}
	return s.quizzes.Delete(ctx, id)
}

// Like toggles the actor's like of the quiz and reports the new state.
// Toggling twice restores both the relation and the counter.
func (s *QuizService) Like(ctx context.Context, actorID, id string) (bool, error) {
	return s.quizzes.ToggleLike(ctx, id, actorID)
}

// Save toggles the actor's save of the quiz and reports the new state.
func (s *QuizService) Save(ctx context.Context, actorID, id string) (bool, error) {
	return s.quizzes.ToggleSave(ctx, id, actorID)
}

// Page is one page of a quiz feed. NextCursor is empty on the last page.
type Page struct {
	Items      []domain.QuizCard `json:"items"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// Search matches the query against titles and descriptions, ordered by id
// ascending, eight items per page.
func (s *QuizService) Search(ctx context.Context, query, cursor string) (*Page, error) {
	quizzes, next, err := s.search.Search(ctx, query, cursor, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{Items: domain.Cards(quizzes), NextCursor: next}, nil
}

// Popular returns the popularity feed, most liked and viewed first.
func (s *QuizService) Popular(ctx context.Context, cursor string) (*Page, error) {
	quizzes, next, err := s.search.Popular(ctx, cursor, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{Items: domain.Cards(quizzes), NextCursor: next}, nil
}
