package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/nhle/todoboard/internal/auth"
	"github.com/nhle/todoboard/internal/store"
)

// Server is the HTTP API for todoboard. Handlers are stateless; all
// state lives in the store, and the caller's identity comes from the
// session middleware.
type Server struct {
	store    store.Store
	sessions *auth.Sessions
	log      *log.Logger
}

// New creates a Server backed by the given store and session issuer.
func New(st store.Store, sessions *auth.Sessions, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, sessions: sessions, log: logger}
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.Handle("/auth/session", s.requireSession(s.handleSession)).Methods(http.MethodGet)

	api.Handle("/todos", s.requireSession(s.handleListTodos)).Methods(http.MethodGet)
	api.Handle("/todos", s.requireSession(s.handleCreateTodo)).Methods(http.MethodPost)
	// Registered before /todos/{id} so "reorder" is never read as an id.
	api.Handle("/todos/reorder", s.requireSession(s.handleReorderTodos)).Methods(http.MethodPost)
	api.Handle("/todos/{id}", s.requireSession(s.handleGetTodo)).Methods(http.MethodGet)
	api.Handle("/todos/{id}", s.requireSession(s.handleUpdateTodo)).Methods(http.MethodPatch)
	api.Handle("/todos/{id}", s.requireSession(s.handleDeleteTodo)).Methods(http.MethodDelete)

	return r
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs each request with its final status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
