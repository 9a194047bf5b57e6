// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the segmentation engine over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/section-engine/internal/engine"
	"github.com/pdiddy/section-engine/pkg/types"
)

const defaultMaxBodyBytes = 4 << 20

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	engine *engine.Engine
	log    *slog.Logger
	cfg    types.ServeConfig
}

// NewServer creates the server and its routes. eng supplies the taxonomy
// and the default chunk sizing; requests may override the sizing.
func NewServer(eng *engine.Engine, log *slog.Logger, cfg types.ServeConfig) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	s := &Server{
		engine: eng,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/segment", s.handleSegment)
		r.Post("/api/reconcile", s.handleReconcile)
		r.Get("/api/taxonomy", s.handleTaxonomy)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"taxonomy": s.engine.Table().Version(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
