package http

import (
	"log"
	"net/http"

	"quizhub/internal/domain"
)

type likeResponse struct {
	Liked bool `json:"liked"`
}

type saveResponse struct {
	Saved bool `json:"saved"`
}

func (a *API) handleQuizCreate(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	var in domain.QuizInput
	if !readJSON(w, r, &in) {
		return
	}
	detail, err := a.quizzes.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	// the submitted draft has served its purpose
	if err := a.drafts.Delete(r.Context(), user.ID); err != nil {
		log.Printf("discard draft of %s: %v", user.ID, err)
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (a *API) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	detail, err := a.quizzes.GetByID(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) handleQuizUpdate(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	var in domain.QuizInput
	if !readJSON(w, r, &in) {
		return
	}
	detail, err := a.quizzes.Update(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) handleQuizDelete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	if err := a.quizzes.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleLike(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	liked, err := a.quizzes.Like(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: liked})
}

func (a *API) handleSave(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	saved, err := a.quizzes.Save(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Saved: saved})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	page, err := a.quizzes.Search(r.Context(), r.URL.Query().Get("query"), r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) handlePopular(w http.ResponseWriter, r *http.Request) {
	page, err := a.quizzes.Popular(r.Context(), r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
