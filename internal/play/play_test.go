package play

import (
	"errors"
	"testing"

	"quizhub/internal/domain"
)

func sampleQuestions() []domain.PublicQuestion {
	return []domain.PublicQuestion{
		{Text: "What is 2 + 2?", Options: []domain.PublicOption{{Text: "3"}, {Text: "4"}}},
		{Text: "What is 3 - 1?", Options: []domain.PublicOption{{Text: "2"}, {Text: "5"}}},
	}
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	if _, err := Start("quiz-1", nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestAnswerAdvancesAndCompletes(t *testing.T) {
	p, err := Start("quiz-1", sampleQuestions())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	current, ok := p.Current()
	if !ok || current.Text != "What is 2 + 2?" {
		t.Fatalf("expected first question, got %+v ok=%v", current, ok)
	}

	if err := p.Answer("4"); err != nil {
		t.Fatalf("answer first: %v", err)
	}
	if p.Completed || p.Index != 1 {
		t.Fatalf("expected advance to second question, got index=%d completed=%v", p.Index, p.Completed)
	}

	if err := p.Answer("5"); err != nil {
		t.Fatalf("answer second: %v", err)
	}
	if !p.Completed {
		t.Fatalf("expected completion after last answer")
	}
	if _, ok := p.Current(); ok {
		t.Fatalf("completed play-through still presents a question")
	}

	want := []domain.AnswerInput{
		{Question: "What is 2 + 2?", Answer: "4"},
		{Question: "What is 3 - 1?", Answer: "5"},
	}
	if len(p.Answers) != len(want) {
		t.Fatalf("expected %d answers, got %d", len(want), len(p.Answers))
	}
	for i := range want {
		if p.Answers[i] != want[i] {
			t.Fatalf("answer %d: got %+v want %+v", i, p.Answers[i], want[i])
		}
	}
}

func TestAnswerRejectsUnknownOption(t *testing.T) {
	p, _ := Start("quiz-1", sampleQuestions())
	if err := p.Answer("42"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if p.Index != 0 || len(p.Answers) != 0 {
		t.Fatalf("rejected answer mutated the play-through")
	}
}

func TestAnswerRejectsAfterCompletion(t *testing.T) {
	p, _ := Start("quiz-1", sampleQuestions())
	_ = p.Answer("4")
	_ = p.Answer("2")
	if err := p.Answer("5"); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
	if len(p.Answers) != 2 {
		t.Fatalf("completed answers mutated: %d", len(p.Answers))
	}
}
