package http

import (
	"net/http"

	"quizhub/internal/domain"
)

type resultCreateRequest struct {
	QuizID  string               `json:"quizId"`
	Answers []domain.AnswerInput `json:"answers"`
}

func (a *API) handleResultCreate(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	var req resultCreateRequest
	if !readJSON(w, r, &req) {
		return
	}
	detail, err := a.results.Create(r.Context(), user.ID, req.QuizID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (a *API) handleResultGet(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	detail, err := a.results.GetByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	details, err := a.results.ListByQuiz(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
