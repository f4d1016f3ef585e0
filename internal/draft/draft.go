// Package draft holds the quiz-authoring editor state: an in-memory draft of
// title, description and question list, edited through explicit transitions.
// Unlike a form that merely disables buttons, the transitions themselves
// reject operations that would break the structural bounds, so the invariants
// hold regardless of caller discipline.
package draft

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// Structural bounds of a quiz draft.
const (
	MinQuestions = 3
	MinOptions   = 2
	MaxOptions   = 4
)

var (
	// ErrQuestionFloor rejects removing a question from a minimal draft.
	ErrQuestionFloor = errors.New("draft: quiz must keep at least 3 questions")
	// ErrOptionFloor rejects removing an option from a minimal question.
	ErrOptionFloor = errors.New("draft: question must keep at least 2 options")
	// ErrOptionCeiling rejects adding a fifth option.
	ErrOptionCeiling = errors.New("draft: question cannot have more than 4 options")
	// ErrNoSuchNode rejects an operation addressing a missing index.
	ErrNoSuchNode = errors.New("draft: no such question or option")
)

// Option is one editable choice. Key is a stable identity for list rendering;
// Error holds the latest validation message for this node.
type Option struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Error     string `json:"error,omitempty"`
}

// Question is one editable prompt with its options.
type Question struct {
	Key     string   `json:"key"`
	Text    string   `json:"text"`
	Error   string   `json:"error,omitempty"`
	Options []Option `json:"options"`
}

// Draft is the in-memory state of a quiz being authored or edited.
type Draft struct {
	Title            string     `json:"title"`
	TitleError       string     `json:"titleError,omitempty"`
	Description      string     `json:"description"`
	DescriptionError string     `json:"descriptionError,omitempty"`
	Questions        []Question `json:"questions"`
}

// New returns a fresh draft already at the structural minimum: three blank
// questions with two blank options each.
func New() *Draft {
	d := &Draft{}
	for i := 0; i < MinQuestions; i++ {
		d.Questions = append(d.Questions, newQuestion())
	}
	return d
}

// Hydrate replaces the whole draft with an existing quiz, for the edit view.
func Hydrate(title, description string, questions []domain.Question) *Draft {
	d := &Draft{Title: title, Description: description}
	for _, q := range questions {
		question := Question{Key: newKey(), Text: q.Text}
		for _, opt := range q.Options {
			question.Options = append(question.Options, Option{Key: newKey(), Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
		d.Questions = append(d.Questions, question)
	}
	return d
}

func newQuestion() Question {
	return Question{
		Key:     newKey(),
		Options: []Option{{Key: newKey()}, {Key: newKey()}},
	}
}

func newKey() string {
	return uuid.NewString()
}

// SetTitle updates the title and clears its error.
func (d *Draft) SetTitle(title string) {
	d.Title = title
	d.TitleError = ""
}

// SetDescription updates the description and clears its error.
func (d *Draft) SetDescription(description string) {
	d.Description = description
	d.DescriptionError = ""
}

// AddQuestion appends a fresh question with two empty options.
func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, newQuestion())
}

// RemoveQuestion deletes the question at i. Removing below the minimum of
// three questions is rejected.
func (d *Draft) RemoveQuestion(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if len(d.Questions) <= MinQuestions {
		return ErrQuestionFloor
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// SetQuestionText updates one question's prompt and clears its error.
func (d *Draft) SetQuestionText(i int, text string) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	d.Questions[i].Text = text
	d.Questions[i].Error = ""
	return nil
}

// MoveQuestionUp swaps the question at i with its predecessor. At the top it
// is a no-op.
func (d *Draft) MoveQuestionUp(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if i == 0 {
		return nil
	}
	d.Questions[i-1], d.Questions[i] = d.Questions[i], d.Questions[i-1]
	return nil
}

// MoveQuestionDown swaps the question at i with its successor. At the bottom
// it is a no-op.
func (d *Draft) MoveQuestionDown(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if i == len(d.Questions)-1 {
		return nil
	}
	d.Questions[i], d.Questions[i+1] = d.Questions[i+1], d.Questions[i]
	return nil
}

// AddOption appends a blank option to question i, up to four options.
func (d *Draft) AddOption(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if len(d.Questions[i].Options) >= MaxOptions {
		return ErrOptionCeiling
	}
	d.Questions[i].Options = append(d.Questions[i].Options, Option{Key: newKey()})
	return nil
}

// RemoveOption deletes option j of question i, down to two options.
func (d *Draft) RemoveOption(i, j int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	opts := d.Questions[i].Options
	if j < 0 || j >= len(opts) {
		return ErrNoSuchNode
	}
	if len(opts) <= MinOptions {
		return ErrOptionFloor
	}
	d.Questions[i].Options = append(opts[:j], opts[j+1:]...)
	return nil
}

// SetOptionText updates one option's text and clears its error.
func (d *Draft) SetOptionText(i, j int, text string) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if j < 0 || j >= len(d.Questions[i].Options) {
		return ErrNoSuchNode
	}
	d.Questions[i].Options[j].Text = text
	d.Questions[i].Options[j].Error = ""
	return nil
}

// ToggleOptionCorrect flips one option's correctness flag. Several options of
// a question may be correct at once.
func (d *Draft) ToggleOptionCorrect(i, j int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrNoSuchNode
	}
	if j < 0 || j >= len(d.Questions[i].Options) {
		return ErrNoSuchNode
	}
	d.Questions[i].Options[j].IsCorrect = !d.Questions[i].Options[j].IsCorrect
	return nil
}

var errPathRe = regexp.MustCompile(`^questions\[(\d+)\](?:\.options\[(\d+)\])?`)

// ApplyErrors walks validation failures and attaches each message to the
// addressed node. Messages about an options list as a whole (count, no correct
// option) land on the owning question. Unparseable paths are skipped.
func (d *Draft) ApplyErrors(fields []domain.FieldError) {
	for _, fe := range fields {
		switch fe.Path {
		case "title":
			d.TitleError = fe.Message
			continue
		case "description":
			d.DescriptionError = fe.Message
			continue
		case "questions":
			// question-count failures have no node to land on; the form
			// surfaces them above the list, so keep them off the tree
			continue
		}
		m := errPathRe.FindStringSubmatch(fe.Path)
		if m == nil {
			continue
		}
		qi, err := strconv.Atoi(m[1])
		if err != nil || qi < 0 || qi >= len(d.Questions) {
			continue
		}
		if m[2] == "" {
			d.Questions[qi].Error = fe.Message
			continue
		}
		oi, err := strconv.Atoi(m[2])
		if err != nil || oi < 0 || oi >= len(d.Questions[qi].Options) {
			continue
		}
		d.Questions[qi].Options[oi].Error = fe.Message
	}
}

// CheckShape verifies the structural bounds of a draft arriving from outside
// the transition functions (e.g. deserialized from a client). Content is not
// validated here; a draft may be incomplete, it is not yet a quiz.
func (d *Draft) CheckShape() error {
	if len(d.Questions) < MinQuestions {
		return ErrQuestionFloor
	}
	for _, q := range d.Questions {
		if len(q.Options) < MinOptions {
			return ErrOptionFloor
		}
		if len(q.Options) > MaxOptions {
			return ErrOptionCeiling
		}
	}
	return nil
}

// Input converts the draft into a quiz payload for validation and submission.
func (d *Draft) Input() domain.QuizInput {
	in := domain.QuizInput{Title: d.Title, Description: d.Description}
	for _, q := range d.Questions {
		qi := domain.QuestionInput{Question: q.Text}
		for _, opt := range q.Options {
			qi.Options = append(qi.Options, domain.OptionInput{Option: opt.Text, IsCorrect: opt.IsCorrect})
		}
		in.Questions = append(in.Questions, qi)
	}
	return in
}
