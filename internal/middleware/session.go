// Package middleware provides HTTP middlewares for admin sessions, request
// logging, metrics and login throttling.
package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionCookieName is the name of the signed admin session cookie.
const SessionCookieName = "cafe_session"

const (
	authenticatedKey = "admin"
	sessionMaxAge    = 7 * 24 * 60 * 60
)

// LoginPath is where unauthenticated page requests are redirected.
const LoginPath = "/admin/login"

// SessionManager stores the admin flag in a signed cookie. A cookie that
// fails verification is treated as an anonymous session.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager returns a SessionManager signing cookies with secret.
// secure marks the cookie Secure and should be set when serving TLS.
func NewSessionManager(secret string, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// IsAuthenticated reports whether the request carries a valid admin session.
func (m *SessionManager) IsAuthenticated(r *http.Request) bool {
	sess, err := m.store.Get(r, SessionCookieName)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[authenticatedKey].(bool)
	return ok
}

// SetAuthenticated marks the session as logged in and writes the cookie.
func (m *SessionManager) SetAuthenticated(w http.ResponseWriter, r *http.Request) error {
	// A tampered cookie yields a fresh session together with an error.
	sess, _ := m.store.Get(r, SessionCookieName)
	sess.Values[authenticatedKey] = true
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, SessionCookieName)
	delete(sess.Values, authenticatedKey)
	opts := *m.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// RequireAdminPage redirects anonymous requests to the login page.
func (m *SessionManager) RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r) {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminAction rejects anonymous mutating requests with 403 and
// leaves the data untouched.
func (m *SessionManager) RequireAdminAction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
