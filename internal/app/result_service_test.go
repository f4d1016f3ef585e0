package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizhub/internal/domain"
)

func TestResultScoreIsDerivedServerSide(t *testing.T) {
	f := newFixture()
	author := f.register(t, "alice")
	player := f.register(t, "bob")
	quiz := f.createQuiz(t, author.ID, "Basic arithmetic")
	ctx := context.Background()

	detail, err := f.results.Create(ctx, player.ID, quiz.ID, []domain.AnswerInput{
		{Question: "What is 2 + 2?", Answer: "4"},
		{Question: "What is 3 - 1?", Answer: "5"},
		{Question: "What is 10 / 2?", Answer: "5"},
	})
	if err != nil {
		t.Fatalf("create result: %v", err)
	}
	if detail.Score != 2 || detail.Total != 3 {
		t.Fatalf("expected score 2/3, got %d/%d", detail.Score, detail.Total)
	}
	if detail.User.ID != player.ID || detail.Quiz.ID != quiz.ID {
		t.Fatalf("relations not resolved: %+v", detail)
	}

	first := detail.Answers[0]
	if first.Question != "What is 2 + 2?" || !first.Correct() {
		t.Fatalf("expected first answer correct, got %+v", first)
	}
	for _, opt := range first.Options {
		if opt.Text == "4" && (!opt.IsPicked || !opt.IsCorrect) {
			t.Fatalf("picked correct option not flagged: %+v", opt)
		}
		if opt.Text == "3" && opt.IsPicked {
			t.Fatalf("unpicked option flagged: %+v", opt)
		}
	}
	if second := detail.Answers[1]; second.Correct() {
		t.Fatalf("wrong answer counted as correct: %+v", second)
	}
}

func TestResultRejectsTamperedAnswers(t *testing.T) {
	f := newFixture()
	author := f.register(t, "alice")
	player := f.register(t, "bob")
	quiz := f.createQuiz(t, author.ID, "Basic arithmetic")
	ctx := context.Background()

	cases := [][]domain.AnswerInput{
		{{Question: "Invented question", Answer: "4"}},
		{{Question: "What is 2 + 2?", Answer: "42"}},
	}
	for i, answers := range cases {
		if _, err := f.results.Create(ctx, player.ID, quiz.ID, answers); !errors.Is(err, domain.ErrAnswersModified) {
			t.Fatalf("case %d: expected ErrAnswersModified, got %v", i, err)
		}
	}

	// nothing was recorded
	results, err := f.results.ListByQuiz(ctx, author.ID, quiz.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("rejected submissions left %d results", len(results))
	}
}

func TestResultAccessControl(t *testing.T) {
	f := newFixture()
	author := f.register(t, "alice")
	player := f.register(t, "bob")
	stranger := f.register(t, "carol")
	quiz := f.createQuiz(t, author.ID, "Basic arithmetic")
	ctx := context.Background()

	created, err := f.results.Create(ctx, player.ID, quiz.ID, []domain.AnswerInput{
		{Question: "What is 2 + 2?", Answer: "4"},
	})
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	if _, err := f.results.GetByID(ctx, player.ID, created.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.results.GetByID(ctx, author.ID, created.ID); err != nil {
		t.Fatalf("quiz author read: %v", err)
	}
	if _, err := f.results.GetByID(ctx, stranger.ID, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := f.results.GetByID(ctx, player.ID, "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}

	if _, err := f.results.ListByQuiz(ctx, player.ID, quiz.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author listing, got %v", err)
	}
	listed, err := f.results.ListByQuiz(ctx, author.ID, quiz.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("author listing: %d results, err=%v", len(listed), err)
	}
}

func TestAuthorReceivesLiveResults(t *testing.T) {
	f := newFixture()
	author := f.register(t, "alice")
	player := f.register(t, "bob")
	quiz := f.createQuiz(t, author.ID, "Basic arithmetic")
	ctx := context.Background()

	if _, _, err := f.results.SubscribeAsAuthor(ctx, player.ID, quiz.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author subscription, got %v", err)
	}

	events, cancel, err := f.results.SubscribeAsAuthor(ctx, author.ID, quiz.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	created, err := f.results.Create(ctx, player.ID, quiz.ID, []domain.AnswerInput{
		{Question: "What is 2 + 2?", Answer: "4"},
	})
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	select {
	case event := <-events:
		if event.ResultID != created.ID || event.QuizID != quiz.ID || event.Score != 1 {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event received")
	}
}
