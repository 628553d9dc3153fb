// Package server exposes the store over a JSON HTTP API so multiple
// board sessions can share one database. Mutations notify the
// dispatcher after they commit.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Server routes API requests onto a store.
type Server struct {
	store    *store.Store
	notify   *notify.Dispatcher
	passcode string
	logger   *log.Logger
	handler  http.Handler
}

// New builds a server. An empty passcode leaves the API open; the
// dispatcher may be nil.
func New(st *store.Store, d *notify.Dispatcher, passcode string) *Server {
	s := &Server{
		store:    st,
		notify:   d,
		passcode: passcode,
		logger:   log.New(os.Stderr, "server: ", log.LstdFlags),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", s.listTasks)
	mux.HandleFunc("POST /api/tasks", s.createTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.getTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.updateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.deleteTask)
	mux.HandleFunc("GET /api/tasks/{id}/comments", s.listComments)
	mux.HandleFunc("POST /api/tasks/{id}/comments", s.createComment)
	mux.HandleFunc("DELETE /api/comments/{id}", s.deleteComment)
	mux.HandleFunc("GET /api/epics", s.listEpics)
	mux.HandleFunc("POST /api/epics", s.createEpic)
	mux.HandleFunc("PATCH /api/epics/{id}", s.updateEpic)
	mux.HandleFunc("DELETE /api/epics/{id}", s.deleteEpic)
	mux.HandleFunc("GET /api/projects", s.listProjects)
	mux.HandleFunc("POST /api/projects", s.createProject)
	mux.HandleFunc("PATCH /api/projects/{id}", s.updateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.deleteProject)
	mux.HandleFunc("GET /api/health", s.health)

	s.handler = s.auth(mux)
	return s
}

// Handler returns the routed handler with auth applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, s.handler)
}

// auth checks the bearer passcode on every request when one is set.
// The health probe stays open so load balancers don't need credentials.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.passcode != "" && r.URL.Path != "/api/health" {
			if r.Header.Get("Authorization") != "Bearer "+s.passcode {
				writeError(w, http.StatusUnauthorized, "invalid or missing passcode")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps store errors onto HTTP statuses: ErrNotFound is 404,
// ErrValidation is 400, anything else is a 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody reads one JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
