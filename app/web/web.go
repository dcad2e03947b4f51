// Package web implements the REST API server for tracked jobs.
// JSON schemas of the API payloads can be produced with `go run ./app/web/internal/schema <dir>`.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/rs/cors"

	"github.com/umputun/jobtrack/app/store"
)

const defaultMaxBodySize = 1024 * 1024

// Server represents the web server
type Server struct {
	store       JobStore
	frontendURL string  // allowed CORS origin
	version     string  // application version for AppInfo headers
	dev         bool    // development mode, verbose error responses
	rateLimit   float64 // mutating requests per second, 0 disables
	maxBodySize int64   // request body limit in bytes
}

//go:generate moq -out mocks/job_store.go -pkg mocks -skip-ensure -fmt goimports . JobStore

// JobStore defines storage operations for jobs
type JobStore interface {
	List(ctx context.Context) ([]store.Job, error)
	Get(ctx context.Context, id int64) (store.Job, error)
	Create(ctx context.Context, req store.JobCreate) (store.Job, error)
	Update(ctx context.Context, id int64, upd store.JobUpdate) (store.Job, error)
	Delete(ctx context.Context, id int64) error
}

// Config holds server configuration
type Config struct {
	Store       JobStore
	FrontendURL string  // origin allowed by CORS, e.g. http://localhost:3000
	Version     string  // application version
	Dev         bool    // development mode adds error details to 500 responses
	RateLimit   float64 // max POST/PUT/DELETE requests per second per client, 0 to disable
	MaxBodySize int64   // max request body size in bytes, defaults to 1MB
}

// New creates a new web server
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("web server initialization failed: Store is required")
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("web server initialization failed: invalid rate limit %v", cfg.RateLimit)
	}
	maxBodySize := cfg.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	return &Server{
		store:       cfg.Store,
		frontendURL: cfg.FrontendURL,
		version:     cfg.Version,
		dev:         cfg.Dev,
		rateLimit:   cfg.RateLimit,
		maxBodySize: maxBodySize,
	}, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s, dev mode: %v", address, s.dev)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware - applied to all routes
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("jobtrack", "umputun", s.version),
		rest.Ping,
		rest.SizeLimit(s.maxBodySize),
		s.corsHandler(),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)

		// preflight is answered by the cors middleware, these only let the mux match OPTIONS
		api.HandleFunc("OPTIONS /jobs", s.handlePreflight)
		api.HandleFunc("OPTIONS /jobs/{id}", s.handlePreflight)

		api.HandleFunc("GET /jobs", s.handleListJobs)
		api.HandleFunc("GET /jobs/{id}", s.handleGetJob)

		writes := api.Group()
		if lmt := s.limiter(); lmt != nil {
			writes.Use(tollbooth.HTTPMiddleware(lmt))
		}
		writes.HandleFunc("POST /jobs", s.handleCreateJob)
		writes.HandleFunc("PUT /jobs/{id}", s.handleUpdateJob)
		writes.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)
	})

	return router
}

// corsHandler allows the configured frontend origin only
func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{s.frontendURL},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler
}

// limiter makes a per-client rate limiter for mutating requests, nil if disabled
func (s *Server) limiter() *limiter.Limiter {
	if s.rateLimit <= 0 {
		return nil
	}
	lmt := tollbooth.NewLimiter(s.rateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"}) // rest.RealIP already resolved it
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"error":"too many requests"}`)
	return lmt
}
