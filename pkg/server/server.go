// Package server exposes maze sessions over HTTP.
//
// Clients create a session, step it in batches, and read cells or the
// rendered maze between steps. Sessions live in memory only; when the store
// is full the oldest session is evicted.
//
// # Routes
//
//	POST   /api/v1/sessions                     create a session
//	GET    /api/v1/sessions                     list session summaries
//	GET    /api/v1/sessions/{id}                session summary
//	POST   /api/v1/sessions/{id}/step?n=K       take up to K steps (default 1)
//	GET    /api/v1/sessions/{id}/cells/{key}    one cell, key as "x.y"
//	GET    /api/v1/sessions/{id}/maze.txt       ASCII walls
//	GET    /api/v1/sessions/{id}/export?format= json, dot, svg, or txt
//	DELETE /api/v1/sessions/{id}                drop a session
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// HTTP status derived from the code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mazegen/pkg/cache"
	"github.com/matzehuels/mazegen/pkg/session"
)

// Defaults for [Config].
const (
	DefaultAddr        = ":8080"
	DefaultMaxSessions = 64

	shutdownTimeout = 5 * time.Second
	artifactTTL     = 10 * time.Minute
)

// Config configures a [Server].
type Config struct {
	Addr        string
	MaxSessions int
	Defaults    session.Options // applied to create requests with zero fields
	Store       session.Store   // nil means a new MemoryStore
	Cache       cache.Cache     // rendered DOT and SVG; nil means a new MemoryCache
	Logger      *log.Logger     // nil means log.Default()
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	store  session.Store
	cache  cache.Cache
	logger *log.Logger
	router chi.Router

	// admitMu serializes eviction and insertion so MaxSessions holds under
	// concurrent creates.
	admitMu sync.Mutex
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemoryCache(cache.DefaultMaxEntries)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		store:  cfg.Store,
		cache:  cfg.Cache,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/step", s.stepSession)
			r.Get("/cells/{key}", s.getCell)
			r.Get("/maze.txt", s.getWalls)
			r.Get("/export", s.exportSession)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
