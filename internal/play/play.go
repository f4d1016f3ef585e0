// Package play drives the sequential play-through of a quiz: questions are
// presented one at a time by index, answers accumulate in memory, and
// completing the last question freezes the answer list for result creation.
// There is no backward navigation and no resume after loss of the session.
package play

import (
	"errors"

	"quizhub/internal/domain"
)

var (
	// ErrCompleted rejects answers after the last question.
	ErrCompleted = errors.New("play: play-through already completed")
	// ErrUnknownOption rejects an answer that is not an option of the
	// current question.
	ErrUnknownOption = errors.New("play: answer is not one of the options")
	// ErrNoQuestions rejects starting a play-through of an empty quiz.
	ErrNoQuestions = errors.New("play: quiz has no questions")
)

// Playthrough is one user's in-flight pass over a quiz. It holds only the
// public question snapshot; correctness is resolved server-side when the
// final answer set becomes a result.
type Playthrough struct {
	QuizID    string                  `json:"quizId"`
	Questions []domain.PublicQuestion `json:"questions"`
	Index     int                     `json:"index"`
	Answers   []domain.AnswerInput    `json:"answers"`
	Completed bool                    `json:"completed"`
}

// Start begins a play-through at the first question.
func Start(quizID string, questions []domain.PublicQuestion) (*Playthrough, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Playthrough{QuizID: quizID, Questions: questions}, nil
}

// Current returns the question being presented, or false once completed.
func (p *Playthrough) Current() (domain.PublicQuestion, bool) {
	if p.Completed {
		return domain.PublicQuestion{}, false
	}
	return p.Questions[p.Index], true
}

// Answer records the picked option for the current question and advances.
// Answering the last question completes the play-through.
func (p *Playthrough) Answer(option string) error {
	if p.Completed {
		return ErrCompleted
	}
	current := p.Questions[p.Index]
	if !hasOption(current, option) {
		return ErrUnknownOption
	}
	p.Answers = append(p.Answers, domain.AnswerInput{Question: current.Text, Answer: option})
	if p.Index+1 == len(p.Questions) {
		p.Completed = true
		return nil
	}
	p.Index++
	return nil
}

func hasOption(q domain.PublicQuestion, option string) bool {
	for _, opt := range q.Options {
		if opt.Text == option {
			return true
		}
	}
	return false
}
