package http

import (
	"net/http"

	"quizhub/internal/domain"
)

type playAnswerRequest struct {
	Answer string `json:"answer"`
}

// playStateResponse is what the player sees between answers: the current
// question without correctness flags, and the final result once completed.
type playStateResponse struct {
	Token     string                 `json:"token,omitempty"`
	Index     int                    `json:"index"`
	Total     int                    `json:"total"`
	Question  *domain.PublicQuestion `json:"question,omitempty"`
	Completed bool                   `json:"completed"`
	Result    *domain.ResultDetail   `json:"result,omitempty"`
}

func (a *API) handlePlayStart(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	token, p, err := a.plays.Start(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := playStateResponse{Token: token, Index: p.Index, Total: len(p.Questions)}
	if question, ok := p.Current(); ok {
		resp.Question = &question
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handlePlaySubmit(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	var req playAnswerRequest
	if !readJSON(w, r, &req) {
		return
	}
	p, result, err := a.plays.Submit(r.Context(), user.ID, r.PathValue("token"), req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := playStateResponse{Index: p.Index, Total: len(p.Questions), Completed: p.Completed, Result: result}
	if question, ok := p.Current(); ok {
		resp.Question = &question
	}
	writeJSON(w, http.StatusOK, resp)
}
