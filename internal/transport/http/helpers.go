package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quizhub/internal/domain"
	"quizhub/internal/draft"
	"quizhub/internal/play"
)

type errorBody struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON payload"})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses. Not-found and forbidden
// stay distinct: a missing resource is 404, someone else's resource is 403.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
		return
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrPlayNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrAnswersModified),
		errors.Is(err, play.ErrCompleted),
		errors.Is(err, play.ErrUnknownOption),
		errors.Is(err, play.ErrNoQuestions),
		errors.Is(err, draft.ErrQuestionFloor),
		errors.Is(err, draft.ErrOptionFloor),
		errors.Is(err, draft.ErrOptionCeiling),
		errors.Is(err, draft.ErrNoSuchNode):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
