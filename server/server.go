// Package server exposes the validation service over JSON REST. It owns no
// business rules: every request becomes exactly one manager call, and every
// typed manager error becomes a status code (not_found → 404, conflict →
// 409).
package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/mo"

	"github.com/cavabunga/cavabunga/manager"
)

const (
	headerContentType = "Content-Type"

	mimeTypeJSON     = "application/json; charset=utf-8"
	mimeTypeCalendar = "text/calendar; charset=utf-8"
)

// Server routes HTTP requests to manager operations.
type Server struct {
	manager *manager.Manager
	mux     *http.ServeMux
	logger  *slog.Logger
}

// New creates a Server around the given manager. A nil logger falls back to
// slog.Default.
func New(m *manager.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		manager: m,
		mux:     http.NewServeMux(),
		logger:  logger,
	}

	s.mux.HandleFunc("POST /participants", s.addParticipant)
	s.mux.HandleFunc("GET /participants", s.listParticipants)
	s.mux.HandleFunc("GET /participants/{key}", s.getParticipant)
	s.mux.HandleFunc("PUT /participants/{id}", s.updateParticipant)
	s.mux.HandleFunc("DELETE /participants/{id}", s.deleteParticipant)

	s.mux.HandleFunc("POST /components", s.addComponent)
	s.mux.HandleFunc("GET /components", s.listComponents)
	s.mux.HandleFunc("GET /components/{id}", s.getComponent)
	s.mux.HandleFunc("GET /components/{id}/calendar", s.exportComponent)
	s.mux.HandleFunc("PUT /components/{id}", s.updateComponent)
	s.mux.HandleFunc("DELETE /components/{id}", s.deleteComponent)

	s.mux.HandleFunc("POST /properties", s.addProperty)
	s.mux.HandleFunc("GET /properties", s.listProperties)
	s.mux.HandleFunc("GET /properties/{id}", s.getProperty)
	s.mux.HandleFunc("PUT /properties/{id}", s.updateProperty)
	s.mux.HandleFunc("DELETE /properties/{id}", s.deleteProperty)

	s.mux.HandleFunc("POST /parameters", s.addParameter)
	s.mux.HandleFunc("GET /parameters", s.listParameters)
	s.mux.HandleFunc("GET /parameters/{id}", s.getParameter)
	s.mux.HandleFunc("PUT /parameters/{id}", s.updateParameter)
	s.mux.HandleFunc("DELETE /parameters/{id}", s.deleteParameter)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("received request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)
	s.mux.ServeHTTP(w, r)
}

// pathID parses the {id} path segment. A malformed id is reported as a
// conflict, matching the numeric-key policy of the manager.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &manager.Error{Kind: manager.KindConflict, Message: "path segment " + strconv.Quote(raw) + " is not a numeric id"}
	}
	return id, nil
}

// queryParam returns the named query parameter, or None when absent or empty.
func queryParam(r *http.Request, name string) mo.Option[string] {
	if v := r.URL.Query().Get(name); v != "" {
		return mo.Some(v)
	}
	return mo.None[string]()
}

// queryID parses an id-valued query parameter.
func queryID(r *http.Request, name string) (mo.Option[int64], error) {
	raw, ok := queryParam(r, name).Get()
	if !ok {
		return mo.None[int64](), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return mo.None[int64](), &manager.Error{Kind: manager.KindConflict, Message: "query parameter " + name + " is not a numeric id"}
	}
	return mo.Some(id), nil
}
