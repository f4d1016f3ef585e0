package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"quizhub/internal/app"
)

// API exposes the application services over REST, plus one websocket feed for
// live results. All routes are wired through withUser, so handlers only look
// at the request context for the actor.
type API struct {
	auth     *app.AuthService
	quizzes  *app.QuizService
	users    *app.UserService
	results  *app.ResultService
	drafts   *app.DraftService
	plays    *app.PlayService
	upgrader websocket.Upgrader
}

func NewAPI(
	auth *app.AuthService,
	quizzes *app.QuizService,
	users *app.UserService,
	results *app.ResultService,
	drafts *app.DraftService,
	plays *app.PlayService,
) *API {
	return &API{
		auth:    auth,
		quizzes: quizzes,
		users:   users,
		results: results,
		drafts:  drafts,
		plays:   plays,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the route table. Literal segments such as /quizzes/search
// take precedence over /quizzes/{id} in the mux.
func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)

	mux.HandleFunc("GET /api/users/me", a.handleMe)
	mux.HandleFunc("GET /api/users/{id}", a.handleUser)

	mux.HandleFunc("POST /api/quizzes", a.handleQuizCreate)
	mux.HandleFunc("GET /api/quizzes/search", a.handleSearch)
	mux.HandleFunc("GET /api/quizzes/popular", a.handlePopular)
	mux.HandleFunc("GET /api/quizzes/{id}", a.handleQuizGet)
	mux.HandleFunc("PUT /api/quizzes/{id}", a.handleQuizUpdate)
	mux.HandleFunc("DELETE /api/quizzes/{id}", a.handleQuizDelete)
	mux.HandleFunc("POST /api/quizzes/{id}/like", a.handleLike)
	mux.HandleFunc("POST /api/quizzes/{id}/save", a.handleSave)
	mux.HandleFunc("GET /api/quizzes/{id}/results", a.handleQuizResults)
	mux.HandleFunc("GET /api/quizzes/{id}/results/live", a.handleResultsLive)
	mux.HandleFunc("POST /api/quizzes/{id}/play", a.handlePlayStart)
	mux.HandleFunc("POST /api/play/{token}", a.handlePlaySubmit)

	mux.HandleFunc("POST /api/results", a.handleResultCreate)
	mux.HandleFunc("GET /api/results/{id}", a.handleResultGet)

	mux.HandleFunc("GET /api/draft", a.handleDraftGet)
	mux.HandleFunc("PUT /api/draft", a.handleDraftPut)
	mux.HandleFunc("DELETE /api/draft", a.handleDraftDelete)

	return a.withUser(mux)
}
