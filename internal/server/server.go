// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                          liveness and build version
//	POST   /v1/plans                         generate and store a plan
//	GET    /v1/plans                         list stored plans, newest first
//	GET    /v1/plans/{id}                    fetch a stored plan
//	DELETE /v1/plans/{id}                    delete a stored plan
//	GET    /v1/plans/{id}/render/{format}    render a stored plan
//
// Errors are JSON objects carrying the machine-readable code from
// [errors.Code]. An infeasible layout answers 422.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/storage"
)

// Server timeouts.
const (
	DefaultAddr       = ":8080"
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 60 * time.Second
	shutdownTimeout   = 10 * time.Second

	// maxBodyBytes caps request bodies; site documents are small.
	maxBodyBytes = 1 << 20
)

// Server routes API requests to a pipeline runner and a plan store.
type Server struct {
	runner *pipeline.Runner
	store  storage.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil logger discards request logs.
func New(runner *pipeline.Runner, store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/plans", func(r chi.Router) {
		r.Post("/", s.handleCreatePlan)
		r.Get("/", s.handleListPlans)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Delete("/", s.handleDeletePlan)
			r.Get("/render/{format}", s.handleRenderPlan)
		})
	})
	return r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
