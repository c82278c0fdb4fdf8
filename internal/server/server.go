// Package server implements the Kindred HTTP API.
//
// The API exposes the layout pipeline over HTTP plus CRUD for stored
// family trees:
//
//	POST   /api/v1/validate        validate a family graph
//	POST   /api/v1/layout          compute a layout for a graph
//	POST   /api/v1/render          render a graph to an output format
//	POST   /api/v1/trees           create a stored tree
//	GET    /api/v1/trees           list stored trees
//	GET    /api/v1/trees/{id}      fetch one tree
//	PUT    /api/v1/trees/{id}      replace a tree's graph or name
//	DELETE /api/v1/trees/{id}      delete a tree
//	GET    /api/v1/trees/{id}/layout   compute the stored tree's layout
//	GET    /api/v1/trees/{id}/render   render the stored tree
//	GET    /healthz                liveness probe
//
// Errors are returned as JSON with the machine-readable codes from the
// errors package, so API consumers and CLI users see the same codes for
// the same defects.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kindredlab/kindred/pkg/pipeline"
	"github.com/kindredlab/kindred/pkg/store"
)

// Timeouts for the HTTP server. Render requests shell out to external
// converters, so the write timeout is generous.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// maxBodyBytes caps request bodies. Family graphs are small; anything
// beyond this is a mistake or abuse.
const maxBodyBytes = 8 << 20

// Config holds the server's dependencies. Zero-value fields get safe
// defaults from New.
type Config struct {
	Addr   string
	Store  store.Store
	Runner *pipeline.Runner
	Logger *log.Logger
}

// Server is the Kindred HTTP API server.
type Server struct {
	addr   string
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil store falls back to in-memory storage and
// a nil runner to an uncached pipeline.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	return &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
}

// Router builds the chi route tree with all middleware and handlers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/trees", func(r chi.Router) {
			r.Post("/", s.handleCreateTree)
			r.Get("/", s.handleListTrees)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTree)
				r.Put("/", s.handleUpdateTree)
				r.Delete("/", s.handleDeleteTree)
				r.Get("/layout", s.handleTreeLayout)
				r.Get("/render", s.handleTreeRender)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
