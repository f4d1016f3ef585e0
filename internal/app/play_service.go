package app

import (
	"context"
	"log"

	"github.com/google/uuid"

	"quizhub/internal/domain"
	"quizhub/internal/play"
)

// PlayService runs server-held play-throughs: one token per in-flight pass,
// answers submitted one question at a time, and a result created when the
// last question is answered.
type PlayService struct {
	plays   PlayStore
	quizzes QuizRepository
	results *ResultService
}

func NewPlayService(plays PlayStore, quizzes QuizRepository, results *ResultService) *PlayService {
	return &PlayService{plays: plays, quizzes: quizzes, results: results}
}

// Start opens a play-through of the quiz and returns its token along with the
// current state. The question snapshot carries no correctness flags.
func (s *PlayService) Start(ctx context.Context, actorID, quizID string) (string, *play.Playthrough, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return "", nil, err
	}
	p, err := play.Start(quizID, quiz.PublicQuestions())
	if err != nil {
		return "", nil, err
	}
	token := uuid.NewString()
	if err := s.plays.Put(ctx, token, &PlaySession{Owner: actorID, Play: *p}); err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// Submit records the answer for the current question. On the final question
// it creates the result and discards the play session; the returned detail is
// non-nil exactly then.
func (s *PlayService) Submit(ctx context.Context, actorID, token, answer string) (*play.Playthrough, *domain.ResultDetail, error) {
	session, err := s.plays.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if session.Owner != actorID {
		return nil, nil, domain.ErrForbidden
	}
	p := session.Play
	if err := p.Answer(answer); err != nil {
		return nil, nil, err
	}
	if !p.Completed {
		session.Play = p
		if err := s.plays.Put(ctx, token, session); err != nil {
			return nil, nil, err
		}
		return &p, nil, nil
	}

	detail, err := s.results.Create(ctx, actorID, p.QuizID, p.Answers)
	if err != nil {
		return nil, nil, err
	}
	if err := s.plays.Delete(ctx, token); err != nil {
		log.Printf("discard play session %s: %v", token, err)
	}
	return &p, detail, nil
}
