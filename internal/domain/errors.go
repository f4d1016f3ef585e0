package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuizNotFound is returned when the addressed quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUserNotFound is returned when the addressed user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrResultNotFound is returned when the addressed result does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrDraftNotFound is returned when the session has no stored draft.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrPlayNotFound is returned when a play token is unknown or expired.
	ErrPlayNotFound = errors.New("play session not found")
	// ErrUnauthorized is returned when an operation needs a valid session.
	ErrUnauthorized = errors.New("not signed in")
	// ErrForbidden is returned when the actor is not the owner of the resource.
	// Kept distinct from the not-found errors so handlers can answer 403 vs 404.
	ErrForbidden = errors.New("not allowed")
	// ErrEmailTaken is returned when registering with an email that is in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAnswersModified is returned when a submitted answer does not match
	// any stored question or option of the quiz.
	ErrAnswersModified = errors.New("answers were modified")
)

// FieldError attributes a validation message to a form field. Path addresses
// the offending node, e.g. "questions[2].options[1].option".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries all field errors of one rejected payload. It is
// recoverable: callers re-render the form with the messages inline.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Path, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
