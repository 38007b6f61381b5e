// Package server exposes the report pipeline and store over a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kibe0711-png/financial-report-creator/internal/importer"
	"github.com/kibe0711-png/financial-report-creator/internal/pipeline"
	"github.com/kibe0711-png/financial-report-creator/internal/store"
)

// DefaultMaxUploadBytes bounds multipart uploads when Options leaves it unset.
const DefaultMaxUploadBytes = 32 << 20

// Options tunes a Server. Zero values select defaults.
type Options struct {
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP API over a Store.
type Server struct {
	store    store.Store
	pipeline *pipeline.Pipeline
	sources  *importer.Registry
	log      zerolog.Logger
	opts     Options
	uploads  *projectLocks
	router   *chi.Mux
	server   *http.Server
}

// New creates a Server. A nil pipeline uses the default classification rules.
func New(st store.Store, p *pipeline.Pipeline, log zerolog.Logger, opts Options) *Server {
	if p == nil {
		p = pipeline.New(nil)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		store:    st,
		pipeline: p,
		sources:  importer.DefaultRegistry(),
		log:      log,
		opts:     opts,
		uploads:  newProjectLocks(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/classifications", s.handleClassifications)
		r.Post("/mapping", s.handleMapping)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Post("/upload", s.handleUpload)
			r.Get("/entries", s.handleListEntries)
			r.Post("/entries", s.handleAddEntry)
			r.Get("/reports", s.handleReports)
			r.Get("/export/{format}", s.handleExport)
		})

		r.Put("/entries", s.handleBulkClassify)
		r.Put("/entries/{entryID}", s.handleClassify)
		r.Delete("/entries/{entryID}", s.handleDeleteEntry)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting server")
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
