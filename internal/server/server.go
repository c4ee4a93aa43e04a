// Package server provides the HTTP API for screening resumes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/config"
	"github.com/hyperjump/screener/internal/engine"
	"github.com/hyperjump/screener/internal/indexer"
	"github.com/hyperjump/screener/internal/library"
	"github.com/hyperjump/screener/internal/storage"
)

// Server is the HTTP server for the screener API.
type Server struct {
	engine  *engine.Engine
	indexer *indexer.Indexer
	storage storage.Storage
	library *library.Index
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. lib may be nil,
// which disables free-text resume search.
func NewServer(
	eng *engine.Engine,
	idx *indexer.Indexer,
	store storage.Storage,
	lib *library.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  eng,
		indexer: idx,
		storage: store,
		library: lib,
		config:  cfg,
		logger:  logger,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze-job", s.handleAnalyzeJob)
		r.Post("/match", s.handleMatch)
		r.Post("/match/upload", s.handleMatchUpload)
		r.Post("/library/match", s.handleLibraryMatch)

		r.Get("/resumes", s.handleListResumes)
		r.Post("/resumes", s.handleCreateResume)
		r.Get("/resumes/{id}", s.handleGetResume)
		r.Delete("/resumes/{id}", s.handleDeleteResume)

		r.Get("/job-searches", s.handleListJobSearches)
		r.Get("/job-searches/{id}/matches", s.handleJobSearchMatches)
		r.Get("/matches", s.handleListMatches)
		r.Get("/dashboard/stats", s.handleDashboardStats)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
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
