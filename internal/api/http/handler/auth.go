package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nvoss/strongbox/internal/api/http/middleware"
	"github.com/nvoss/strongbox/internal/api/http/web"
	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// SessionService issues and drops web sessions.
type SessionService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string)
}

// Auth serves the login form and handles login/logout posts.
type Auth struct {
	sessions SessionService
	logger   *logger.Logger
}

// NewAuth creates the auth handler.
func NewAuth(sessions SessionService, l *logger.Logger) *Auth {
	return &Auth{sessions: sessions, logger: l}
}

// LoginPage answers GET /login.html.
func (h *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, web.LoginPage(""))
}

// Login answers POST /login. A successful login sets the session cookie
// and lands on the control frameset.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.reject(w, fmt.Errorf("%w: malformed form", model.ErrEmptyField))
		return
	}

	token, err := h.sessions.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		h.reject(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout answers POST /logout, dropping the session and its cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.sessions.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/login.html", http.StatusSeeOther)
}

func (h *Auth) reject(w http.ResponseWriter, err error) {
	h.logger.Info("login rejected", "error", err.Error())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusFromError(err))
	_, _ = io.WriteString(w, web.LoginPage(err.Error()))
}
