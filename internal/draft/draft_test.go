package draft

import (
	"errors"
	"testing"

	"quizhub/internal/domain"
)

func TestNewStartsAtStructuralMinimum(t *testing.T) {
	d := New()
	if len(d.Questions) != MinQuestions {
		t.Fatalf("expected %d questions, got %d", MinQuestions, len(d.Questions))
	}
	for i, q := range d.Questions {
		if len(q.Options) != MinOptions {
			t.Fatalf("question %d: expected %d options, got %d", i, MinOptions, len(q.Options))
		}
		if q.Key == "" {
			t.Fatalf("question %d has no key", i)
		}
	}
}

func TestRemoveQuestionRejectsFloor(t *testing.T) {
	d := New()
	if err := d.RemoveQuestion(0); !errors.Is(err, ErrQuestionFloor) {
		t.Fatalf("expected floor rejection, got %v", err)
	}
	if len(d.Questions) != MinQuestions {
		t.Fatalf("draft mutated by rejected removal")
	}

	d.AddQuestion()
	if err := d.RemoveQuestion(3); err != nil {
		t.Fatalf("remove above floor: %v", err)
	}
	if len(d.Questions) != MinQuestions {
		t.Fatalf("expected %d questions after removal, got %d", MinQuestions, len(d.Questions))
	}
}

func TestOptionBounds(t *testing.T) {
	d := New()
	if err := d.RemoveOption(0, 0); !errors.Is(err, ErrOptionFloor) {
		t.Fatalf("expected option floor rejection, got %v", err)
	}

	if err := d.AddOption(0); err != nil {
		t.Fatalf("third option: %v", err)
	}
	if err := d.AddOption(0); err != nil {
		t.Fatalf("fourth option: %v", err)
	}
	if err := d.AddOption(0); !errors.Is(err, ErrOptionCeiling) {
		t.Fatalf("expected option ceiling rejection, got %v", err)
	}
	if len(d.Questions[0].Options) != MaxOptions {
		t.Fatalf("expected %d options, got %d", MaxOptions, len(d.Questions[0].Options))
	}

	if err := d.RemoveOption(0, 3); err != nil {
		t.Fatalf("remove above floor: %v", err)
	}
}

func TestMoveQuestionBoundariesAreNoOps(t *testing.T) {
	d := New()
	for i := range d.Questions {
		d.Questions[i].Text = string(rune('a' + i))
	}

	if err := d.MoveQuestionUp(0); err != nil {
		t.Fatalf("move up at top: %v", err)
	}
	if err := d.MoveQuestionDown(2); err != nil {
		t.Fatalf("move down at bottom: %v", err)
	}
	if d.Questions[0].Text != "a" || d.Questions[2].Text != "c" {
		t.Fatalf("boundary move reordered questions: %+v", d.Questions)
	}

	if err := d.MoveQuestionDown(0); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if d.Questions[0].Text != "b" || d.Questions[1].Text != "a" {
		t.Fatalf("expected swap, got %q %q", d.Questions[0].Text, d.Questions[1].Text)
	}
	if err := d.MoveQuestionUp(1); err != nil {
		t.Fatalf("move up: %v", err)
	}
	if d.Questions[0].Text != "a" || d.Questions[1].Text != "b" {
		t.Fatalf("expected order restored, got %q %q", d.Questions[0].Text, d.Questions[1].Text)
	}
}

func TestTransitionsRejectMissingNodes(t *testing.T) {
	d := New()
	cases := []error{
		d.SetQuestionText(9, "x"),
		d.RemoveQuestion(-1),
		d.AddOption(9),
		d.RemoveOption(0, 9),
		d.SetOptionText(9, 0, "x"),
		d.ToggleOptionCorrect(0, 9),
		d.MoveQuestionUp(9),
		d.MoveQuestionDown(-1),
	}
	for i, err := range cases {
		if !errors.Is(err, ErrNoSuchNode) {
			t.Fatalf("case %d: expected ErrNoSuchNode, got %v", i, err)
		}
	}
}

func TestEditsClearNodeErrors(t *testing.T) {
	d := New()
	d.ApplyErrors([]domain.FieldError{
		{Path: "title", Message: "Title must contain at least 5 characters"},
		{Path: "description", Message: "Description must contain at least 5 characters"},
		{Path: "questions[0].question", Message: "Question title is missing"},
		{Path: "questions[1].options", Message: "At least one option must be correct"},
		{Path: "questions[0].options[1].option", Message: "Option title is missing"},
	})

	if d.TitleError == "" || d.DescriptionError == "" {
		t.Fatalf("expected title and description errors set")
	}
	if d.Questions[0].Error == "" || d.Questions[1].Error == "" {
		t.Fatalf("expected question errors set")
	}
	if d.Questions[0].Options[1].Error == "" {
		t.Fatalf("expected option error set")
	}

	d.SetTitle("Basic arithmetic")
	d.SetDescription("Simple sums")
	if err := d.SetQuestionText(0, "What is 2 + 2?"); err != nil {
		t.Fatalf("set question text: %v", err)
	}
	if err := d.SetOptionText(0, 1, "4"); err != nil {
		t.Fatalf("set option text: %v", err)
	}

	if d.TitleError != "" || d.DescriptionError != "" {
		t.Fatalf("expected title/description errors cleared")
	}
	if d.Questions[0].Error != "" || d.Questions[0].Options[1].Error != "" {
		t.Fatalf("expected node errors cleared on edit")
	}
	// question 1 was not touched, its error stays
	if d.Questions[1].Error == "" {
		t.Fatalf("untouched question lost its error")
	}
}

func TestApplyErrorsSkipsUnaddressablePaths(t *testing.T) {
	d := New()
	d.ApplyErrors([]domain.FieldError{
		{Path: "questions", Message: "Quiz must contain at least 3 questions"},
		{Path: "questions[9].question", Message: "Question title is missing"},
		{Path: "bogus", Message: "nope"},
	})
	for i, q := range d.Questions {
		if q.Error != "" {
			t.Fatalf("question %d unexpectedly annotated: %q", i, q.Error)
		}
	}
}

func TestCheckShape(t *testing.T) {
	d := New()
	if err := d.CheckShape(); err != nil {
		t.Fatalf("fresh draft rejected: %v", err)
	}

	short := &Draft{Questions: d.Questions[:2]}
	if err := short.CheckShape(); !errors.Is(err, ErrQuestionFloor) {
		t.Fatalf("expected question floor, got %v", err)
	}

	d = New()
	d.Questions[1].Options = d.Questions[1].Options[:1]
	if err := d.CheckShape(); !errors.Is(err, ErrOptionFloor) {
		t.Fatalf("expected option floor, got %v", err)
	}

	d = New()
	for i := 0; i < 3; i++ {
		d.Questions[0].Options = append(d.Questions[0].Options, Option{Key: newKey()})
	}
	if err := d.CheckShape(); !errors.Is(err, ErrOptionCeiling) {
		t.Fatalf("expected option ceiling, got %v", err)
	}
}

func TestHydrateAndInputRoundTrip(t *testing.T) {
	questions := []domain.Question{
		{Text: "What is 2 + 2?", Options: []domain.Option{{Text: "3"}, {Text: "4", IsCorrect: true}}},
		{Text: "What is 3 - 1?", Options: []domain.Option{{Text: "2", IsCorrect: true}, {Text: "5"}}},
		{Text: "What is 10 / 2?", Options: []domain.Option{{Text: "5", IsCorrect: true}, {Text: "4"}}},
	}
	d := Hydrate("Basic arithmetic", "Simple sums and differences", questions)

	in := d.Input()
	if err := in.Validate(); err != nil {
		t.Fatalf("hydrated draft should validate: %v", err)
	}
	round := in.ToQuestions()
	if len(round) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(round))
	}
	for i := range round {
		if round[i].Text != questions[i].Text {
			t.Fatalf("question %d changed: %q", i, round[i].Text)
		}
		for j := range round[i].Options {
			if round[i].Options[j] != questions[i].Options[j] {
				t.Fatalf("option %d/%d changed: %+v", i, j, round[i].Options[j])
			}
		}
	}
}
