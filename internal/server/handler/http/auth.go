// Package http provides the HTTP handlers and routing for the cafe menu:
// the public menu and its JSON API, admin login, and the admin pages.
package http

import (
	"net/http"

	"go.uber.org/zap"
)

// Messages shown on the login page.
const (
	msgBadCredentials  = "Hatalı kullanıcı adı veya şifre."
	msgTooManyAttempts = "Çok fazla deneme. Lütfen biraz sonra tekrar deneyin."
)

// DashboardPath is where a successful login lands.
const DashboardPath = "/admin/dashboard"

// AuthService defines the credential check required by the login handler.
type AuthService interface {
	// Login reports whether the credential matches the configured operator.
	Login(username, password string) bool
}

// SessionStore reads and writes the admin flag of the current session.
type SessionStore interface {
	IsAuthenticated(r *http.Request) bool
	SetAuthenticated(w http.ResponseWriter, r *http.Request) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	AuthService AuthService
	Sessions    SessionStore
	Renderer    *Renderer
	Log         *zap.Logger
}

type loginPage struct {
	Username string
	Error    string
}

// LoginPage renders the login form, or sends an admin straight to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, DashboardPath, http.StatusFound)
		return
	}
	h.render(w, http.StatusOK, loginPage{})
}

// Login checks the submitted credential. On success the session is marked
// authenticated and the client is redirected to the dashboard; otherwise the
// form is shown again with an error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, loginPage{Error: msgBadCredentials})
		return
	}
	username := r.PostForm.Get("username")
	if !h.AuthService.Login(username, r.PostForm.Get("password")) {
		h.Log.Info("admin login failed", zap.String("username", username))
		h.render(w, http.StatusUnauthorized, loginPage{Username: username, Error: msgBadCredentials})
		return
	}
	if err := h.Sessions.SetAuthenticated(w, r); err != nil {
		internalError(w, h.Log, "save session", err)
		return
	}
	h.Log.Info("admin logged in")
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// TooManyAttempts renders the login form for a throttled client.
func (h *AuthHandler) TooManyAttempts(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusTooManyRequests, loginPage{Error: msgTooManyAttempts})
}

// Logout clears the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		internalError(w, h.Log, "clear session", err)
		return
	}
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (h *AuthHandler) render(w http.ResponseWriter, status int, data loginPage) {
	if err := h.Renderer.Render(w, status, "admin_login.html", data); err != nil {
		internalError(w, h.Log, "render login", err)
	}
}
