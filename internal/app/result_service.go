package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// ResultService creates and serves play-through results. Correctness is
// always re-derived from the quiz's stored options; a client-supplied flag
// never enters the record.
type ResultService struct {
	results ResultRepository
	quizzes QuizRepository
	feed    *ResultFeed
}

func NewResultService(results ResultRepository, quizzes QuizRepository, feed *ResultFeed) *ResultService {
	return &ResultService{results: results, quizzes: quizzes, feed: feed}
}

// Create verifies the submitted answers against the quiz and records an
// immutable result. An answer that names an unknown question or option fails
// with domain.ErrAnswersModified and nothing is written.
func (s *ResultService) Create(ctx context.Context, actorID, quizID string, answers []domain.AnswerInput) (*domain.ResultDetail, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	verified, err := verifyAnswers(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}
	result := &domain.Result{
		ID:        uuid.NewString(),
		UserID:    actorID,
		QuizID:    quizID,
		Answers:   verified,
		Score:     domain.Score(verified),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}

	created, err := s.results.GetByID(ctx, result.ID)
	if err != nil {
		return nil, err
	}
	detail := created.AsDetail()
	s.feed.Publish(ResultEvent{
		ResultID:  detail.ID,
		QuizID:    quizID,
		User:      detail.User,
		Score:     detail.Score,
		Total:     detail.Total,
		CreatedAt: detail.CreatedAt,
	})
	return &detail, nil
}

// GetByID returns a result to its owner or to the quiz's author; anyone else
// gets domain.ErrForbidden.
func (s *ResultService) GetByID(ctx context.Context, actorID, id string) (*domain.ResultDetail, error) {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.UserID != actorID && (result.Quiz == nil || result.Quiz.AuthorID != actorID) {
		return nil, domain.ErrForbidden
	}
	detail := result.AsDetail()
	return &detail, nil
}

// ListByQuiz returns all results of a quiz to its author, newest first.
func (s *ResultService) ListByQuiz(ctx context.Context, actorID, quizID string) ([]domain.ResultDetail, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	results, err := s.results.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	details := make([]domain.ResultDetail, 0, len(results))
	for i := range results {
		details = append(details, results[i].AsDetail())
	}
	return details, nil
}

// SubscribeAsAuthor opens a live result feed for the quiz's author.
func (s *ResultService) SubscribeAsAuthor(ctx context.Context, actorID, quizID string) (<-chan ResultEvent, func(), error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz.AuthorID != actorID {
		return nil, nil, domain.ErrForbidden
	}
	ch, cancel := s.feed.Subscribe(quizID)
	return ch, cancel, nil
}

// verifyAnswers matches each submitted answer against the stored questions
// and rebuilds the option list with picked flags. The original client-side
// correctness claim, if any, is discarded here.
func verifyAnswers(questions []domain.Question, answers []domain.AnswerInput) ([]domain.ResultAnswer, error) {
	verified := make([]domain.ResultAnswer, 0, len(answers))
	for _, answer := range answers {
		question := findQuestion(questions, answer.Question)
		if question == nil || findOption(question.Options, answer.Answer) == nil {
			return nil, domain.ErrAnswersModified
		}
		ra := domain.ResultAnswer{Question: question.Text, Options: make([]domain.ResultOption, 0, len(question.Options))}
		for _, opt := range question.Options {
			ra.Options = append(ra.Options, domain.ResultOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				IsPicked:  opt.Text == answer.Answer,
			})
		}
		verified = append(verified, ra)
	}
	return verified, nil
}

func findQuestion(questions []domain.Question, text string) *domain.Question {
	for i := range questions {
		if questions[i].Text == text {
			return &questions[i]
		}
	}
	return nil
}

func findOption(options []domain.Option, text string) *domain.Option {
	for i := range options {
		if options[i].Text == text {
			return &options[i]
		}
	}
	return nil
}
