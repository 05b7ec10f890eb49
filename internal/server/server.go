// Package server exposes a packed wall layout over HTTP.
//
// The server is a thin consumer of the layout engine: it holds one
// immutable Layout and answers visibility queries against it. Replacing
// the image set means restarting with a new layout.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/driftwall/driftwall/pkg/wall"
)

// Server serves visibility queries for a single packed layout.
type Server struct {
	layout *wall.Layout
	doc    wall.Document
	logger *log.Logger
}

// New creates a server for the given layout.
func New(layout *wall.Layout, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		layout: layout,
		doc:    layout.Document(),
		logger: logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/visible", s.handleVisible)
		r.Get("/layout", s.handleLayout)
	})
	return r
}

// requestID attaches a fresh UUID to each request for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := log.WithContext(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests logs one line per request with method, path and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.FromContext(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
