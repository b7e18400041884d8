// Package server serves a built site together with a small JSON API over
// the recipe documents.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Options configure a Server.
type Options struct {
	// DistDir is served for every path outside /api.
	DistDir        string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	// DetailPrefix is where detail documents live relative to the
	// fetcher root, e.g. "" for {id}.json.
	DetailPrefix string
	// AllowWrites enables PUT /api/recipes/{id}.
	AllowWrites bool
}

// Server is the preview server.
type Server struct {
	opts     Options
	fetcher  domain.Fetcher
	store    domain.DocumentStore
	validate *validator.Validate
	metrics  *metrics
	log      *logger.Logger
	handler  http.Handler
}

// New wires the router. Documents are read through fetcher and written to
// store.
func New(opts Options, fetcher domain.Fetcher, store domain.DocumentStore, log *logger.Logger) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	s := &Server{
		opts:     opts,
		fetcher:  fetcher,
		store:    store,
		validate: validator.New(),
		metrics:  newMetrics(),
		log:      log,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))
	r.Use(s.metrics.instrument)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/recipes", s.handleList)
		r.Get("/recipes/{id}", s.handleGet)
		r.Put("/recipes/{id}", s.handlePut)
		r.Get("/time", s.handleTime)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			s.writeError(w, http.StatusNotFound, "no such endpoint")
		})
	})

	r.Handle("/metrics", s.metrics.handler())
	r.Handle("/*", staticFiles(s.opts.DistDir))
	return r
}

// ListenAndServe serves on bind until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", bind, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.log.Info("serving %s on http://%s", s.opts.DistDir, listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
