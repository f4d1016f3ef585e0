package http

import (
	"context"
	"net/http"

	"quizhub/internal/domain"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "quizhub_session"

type contextKey int

const userKey contextKey = 0

// withUser resolves the session cookie, if any, and threads the account
// through the request context. Requests without a valid session pass through
// anonymously; endpoints that need an actor use requireUser.
func (a *API) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil && cookie.Value != "" {
			if user, err := a.auth.UserFromToken(r.Context(), cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser returns the authenticated account, or nil.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

// actorID returns the authenticated user id, or "".
func actorID(r *http.Request) string {
	if user := currentUser(r); user != nil {
		return user.ID
	}
	return ""
}

// requireUser answers 401 and returns nil when the request has no session.
func requireUser(w http.ResponseWriter, r *http.Request) *domain.User {
	user := currentUser(r)
	if user == nil {
		writeError(w, domain.ErrUnauthorized)
		return nil
	}
	return user
}
