// Package server provides the HTTP API for AI Hub.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amodvardhan/ai-hub/internal/config"
	"github.com/amodvardhan/ai-hub/internal/document"
	"github.com/amodvardhan/ai-hub/internal/evaluation"
	"github.com/amodvardhan/ai-hub/internal/search"
	"github.com/amodvardhan/ai-hub/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP server for the AI Hub API.
type Server struct {
	documents   *document.Service
	evaluations *evaluation.Service
	storage     storage.Storage
	index       *search.Index
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	documents *document.Service,
	evaluations *evaluation.Service,
	store storage.Storage,
	index *search.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		documents:   documents,
		evaluations: evaluations,
		storage:     store,
		index:       index,
		config:      cfg,
		logger:      logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireUser)

		r.Post("/documents", s.handleUploadDocument)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)

		r.Post("/evaluations", s.handleCreateEvaluation)
		r.Get("/evaluations", s.handleListEvaluations)
		r.Get("/evaluations/{id}", s.handleGetEvaluation)
		r.Post("/evaluations/{id}/analyze", s.handleAnalyzeEvaluation)
		r.Post("/evaluations/{id}/criteria", s.handleAddCriterion)
		r.Get("/evaluations/{id}/criteria", s.handleListCriteria)
		r.Post("/criteria/{id}/score", s.handleScoreCriterion)

		r.Get("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
