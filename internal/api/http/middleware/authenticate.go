package middleware

import (
	"context"
	"io"
	"net/http"

	"github.com/nvoss/strongbox/internal/api/http/web"
	"github.com/nvoss/strongbox/internal/logger"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "strongbox_session"

// SessionValidator checks a session token and refreshes its idle expiry.
type SessionValidator interface {
	Validate(ctx context.Context, token string) error
}

// Authenticate gates requests behind a valid session cookie. Rejected
// requests get a 401 with the login form, the re-login prompt.
type Authenticate struct {
	sessions SessionValidator
	logger   *logger.Logger
}

// NewAuthenticate creates the authentication middleware.
func NewAuthenticate(sessions SessionValidator, l *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, logger: l}
}

// Handle wraps next so it only runs for authenticated requests.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			m.reject(w, r, "please log in")
			return
		}
		if err := m.sessions.Validate(r.Context(), cookie.Value); err != nil {
			m.reject(w, r, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Authenticate) reject(w http.ResponseWriter, r *http.Request, reason string) {
	m.logger.Info("request rejected", "path", r.URL.Path, "reason", reason)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = io.WriteString(w, web.LoginPage(reason))
}
