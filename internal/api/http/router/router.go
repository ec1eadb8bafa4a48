package router

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nvoss/strongbox/internal/api/http/handler"
	"github.com/nvoss/strongbox/internal/api/http/middleware"
	"github.com/nvoss/strongbox/internal/api/http/web"
	"github.com/nvoss/strongbox/internal/logger"
)

// Router wires the control surface routes: the static pages, the login
// endpoints, and the authenticated form dispatcher.
type Router struct {
	lock      handler.LockService
	provision handler.ProvisionService
	sessions  SessionManager
	logger    *logger.Logger
}

// SessionManager combines what the auth handler and the auth middleware
// need from the session service.
type SessionManager interface {
	handler.SessionService
	middleware.SessionValidator
}

// New creates a Router over the given services.
func New(lock handler.LockService, provision handler.ProvisionService, sessions SessionManager, l *logger.Logger) *Router {
	return &Router{lock: lock, provision: provision, sessions: sessions, logger: l}
}

// Register builds the route table. Everything except the login endpoints
// sits behind the session gate.
func (r *Router) Register() *mux.Router {
	safe := handler.NewSafe(r.lock, r.provision, r.logger)
	auth := handler.NewAuth(r.sessions, r.logger)
	authenticate := middleware.NewAuthenticate(r.sessions, r.logger)
	logging := middleware.NewLogging(r.logger)

	m := mux.NewRouter()
	m.Use(logging.Handle)

	m.HandleFunc("/login.html", auth.LoginPage).Methods(http.MethodGet)
	m.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	m.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)

	gate := authenticate.Handle
	m.Handle("/", gate(page(web.IndexPage))).Methods(http.MethodGet)
	m.Handle("/top_frame.html", gate(page(web.TopFramePage))).Methods(http.MethodGet)
	m.Handle("/menu_frame.html", gate(page(web.MenuFramePage))).Methods(http.MethodGet)
	m.Handle("/change_auth.html", gate(page(web.ChangeAuthPage))).Methods(http.MethodGet)
	m.Handle("/change_ap.html", gate(page(web.ChangeAPPage))).Methods(http.MethodGet)

	m.Handle("/safe/", gate(http.HandlerFunc(safe.Status))).Methods(http.MethodGet)
	m.Handle("/safe/", gate(http.HandlerFunc(safe.Dispatch))).Methods(http.MethodPost)
	m.Handle("/", gate(http.HandlerFunc(safe.ChangeWiFi))).Methods(http.MethodPost)

	return m
}

func page(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	})
}
