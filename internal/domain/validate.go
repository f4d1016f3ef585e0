package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OptionInput is one option of a submitted quiz payload.
type OptionInput struct {
	Option    string `json:"option" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionInput is one question of a submitted quiz payload.
type QuestionInput struct {
	Question string        `json:"question" validate:"required"`
	Options  []OptionInput `json:"options" validate:"min=2,max=4,onecorrect,uniqueoptions,dive"`
}

// QuizInput is the create/edit payload for a quiz.
type QuizInput struct {
	Title       string          `json:"title" validate:"required,min=5"`
	Description string          `json:"description" validate:"required,min=5,max=500"`
	Questions   []QuestionInput `json:"questions" validate:"required,min=3,dive"`
}

var quizValidator = newQuizValidator()

func newQuizValidator() *validator.Validate {
	v := validator.New()
	// Report json names so error paths line up with form fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("onecorrect", hasCorrectOption); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("uniqueoptions", hasUniqueOptions); err != nil {
		panic(err)
	}
	return v
}

func hasCorrectOption(fl validator.FieldLevel) bool {
	opts, ok := fl.Field().Interface().([]OptionInput)
	if !ok {
		return false
	}
	for _, opt := range opts {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

// hasUniqueOptions rejects duplicated option text. Blank options are not
// duplicates of each other; "required" flags those on their own.
func hasUniqueOptions(fl validator.FieldLevel) bool {
	opts, ok := fl.Field().Interface().([]OptionInput)
	if !ok {
		return false
	}
	seen := make(map[string]bool, len(opts))
	for _, opt := range opts {
		if opt.Option == "" {
			continue
		}
		if seen[opt.Option] {
			return false
		}
		seen[opt.Option] = true
	}
	return true
}

// Validate checks the payload against the quiz schema and returns a
// *ValidationError with field-addressed messages on rejection.
func (in QuizInput) Validate() error {
	err := quizValidator.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Path: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath turns the validator namespace into a form path like
// "questions[2].options[1].option".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		return "Title must contain at least 5 characters"
	case "description":
		if fe.Tag() == "max" {
			return "Description must be less than 500 characters"
		}
		return "Description must contain at least 5 characters"
	case "questions":
		return "Quiz must contain at least 3 questions"
	case "question":
		return "Question title is missing"
	case "options":
		switch fe.Tag() {
		case "min":
			return "Question must contain at least 2 options"
		case "max":
			return "Question must contain at most 4 options"
		case "onecorrect":
			return "At least one option must be correct"
		case "uniqueoptions":
			return "Equal options should not exist"
		}
	case "option":
		return "Option title is missing"
	}
	return "Invalid value"
}

// ToQuestions converts an accepted payload into the stored question shape.
func (in QuizInput) ToQuestions() []Question {
	questions := make([]Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		question := Question{Text: q.Question, Options: make([]Option, 0, len(q.Options))}
		for _, opt := range q.Options {
			question.Options = append(question.Options, Option{Text: opt.Option, IsCorrect: opt.IsCorrect})
		}
		questions = append(questions, question)
	}
	return questions
}

// QuestionsToInput is the inverse of ToQuestions, used to hydrate the edit form.
func QuestionsToInput(questions []Question) []QuestionInput {
	out := make([]QuestionInput, 0, len(questions))
	for _, q := range questions {
		qi := QuestionInput{Question: q.Text, Options: make([]OptionInput, 0, len(q.Options))}
		for _, opt := range q.Options {
			qi.Options = append(qi.Options, OptionInput{Option: opt.Text, IsCorrect: opt.IsCorrect})
		}
		out = append(out, qi)
	}
	return out
}
