package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/discoverysim/internal/session"
)

const (
	SessionCookieName = "discoverysim_session"
	sessionCookieAge  = 24 * time.Hour
)

type contextKey int

const sessionKey contextKey = iota

// SessionFromContext returns the session bound by SessionMiddleware.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

func setSessionCookie(w http.ResponseWriter, id uuid.UUID, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		Expires:  time.Now().Add(sessionCookieAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func lookupSession(r *http.Request, sessions *session.Manager) *session.Session {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil
	}
	s, err := sessions.Get(id)
	if err != nil {
		return nil
	}
	return s
}

// SessionMiddleware binds the browser to its session through an HttpOnly
// cookie. Unknown, malformed or expired cookies get a fresh session, but only
// a state-changing request registers it and sets the cookie. Reads without a
// live session see an unregistered blank one.
func SessionMiddleware(sessions *session.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := lookupSession(r, sessions)
			switch {
			case s != nil:
				setSessionCookie(w, s.ID, secure)
			case isSafeMethod(r.Method):
				s = session.New()
			default:
				s = sessions.Create()
				setSessionCookie(w, s.ID, secure)
			}
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// BearerAuthMiddleware guards instructor endpoints. An empty token refuses
// every request.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSON(w, http.StatusForbidden, errorBody{Error: "archive access is not configured", Code: "forbidden"})
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid bearer token", Code: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
