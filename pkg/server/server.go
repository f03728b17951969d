// Package server is the thin HTTP adapter over the governance engine. It
// translates requests into RunComplianceCycle calls and traces into response
// bodies; no governance decisions are made here.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"meridian-hq/minos/pkg/audit"
	"meridian-hq/minos/pkg/config"
	"meridian-hq/minos/pkg/govern"
	"meridian-hq/minos/pkg/law/store"
	"meridian-hq/minos/pkg/sentinel"
	"meridian-hq/minos/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Server is the HTTP adapter for the governance engine.
type Server struct {
	config     config.ServerConfig
	engine     *govern.Engine
	store      *store.Store
	sentinel   *sentinel.Sentinel
	recorder   *audit.Recorder
	registry   *prometheus.Registry
	version    string
	httpServer *http.Server
	mu         sync.Mutex
	running    bool
	logger     *slog.Logger
}

// Options carries the collaborators the server exposes. Recorder and
// Registry may be nil; the corresponding behavior is simply absent.
type Options struct {
	Config   config.ServerConfig
	Engine   *govern.Engine
	Store    *store.Store
	Sentinel *sentinel.Sentinel
	Recorder *audit.Recorder
	Registry *prometheus.Registry
	Version  string
}

// New creates the HTTP adapter.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil || opts.Store == nil || opts.Sentinel == nil {
		return nil, fmt.Errorf("engine, store, and sentinel are required")
	}
	return &Server{
		config:   opts.Config,
		engine:   opts.Engine,
		store:    opts.Store,
		sentinel: opts.Sentinel,
		recorder: opts.Recorder,
		registry: opts.Registry,
		version:  opts.Version,
		logger:   slog.Default().With("component", "server"),
	}, nil
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("governance server starting", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("governance server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// routes builds the handler mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /laws", s.handleLaws)
	mux.HandleFunc("POST /govern/sentinel", s.handleSentinel)
	mux.HandleFunc("POST /govern/compliance-cycle", s.handleComplianceCycle)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.Handler(s.registry))
	}
	return s.logRequests(mux)
}

// logRequests is the access-log middleware.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", "method", r.Method, "path", r.URL.Path)
	})
}
