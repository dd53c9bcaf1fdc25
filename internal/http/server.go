// Package http serves the quadrant JSON API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rezkam/quadrant/internal/config"
	mw "github.com/rezkam/quadrant/internal/http/middleware"
)

// Fallbacks for zero values in config.HTTPConfig, which the env loader fills
// from the same defaults.
var fallback = config.HTTPConfig{
	Port:              "8081",
	ReadTimeout:       15 * time.Second,
	WriteTimeout:      15 * time.Second,
	IdleTimeout:       60 * time.Second,
	ReadHeaderTimeout: 5 * time.Second,
	MaxHeaderBytes:    1 << 20,
	MaxBodyBytes:      1 << 20,
}

func withFallbacks(cfg config.HTTPConfig) config.HTTPConfig {
	cfg.Port = or(cfg.Port, fallback.Port)
	cfg.ReadTimeout = or(cfg.ReadTimeout, fallback.ReadTimeout)
	cfg.WriteTimeout = or(cfg.WriteTimeout, fallback.WriteTimeout)
	cfg.IdleTimeout = or(cfg.IdleTimeout, fallback.IdleTimeout)
	cfg.ReadHeaderTimeout = or(cfg.ReadHeaderTimeout, fallback.ReadHeaderTimeout)
	cfg.MaxHeaderBytes = or(cfg.MaxHeaderBytes, fallback.MaxHeaderBytes)
	cfg.MaxBodyBytes = or(cfg.MaxBodyBytes, fallback.MaxBodyBytes)
	return cfg
}

func or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// APIServer is the HTTP server with its router.
type APIServer struct {
	server *http.Server
	tls    bool
	cert   string
	key    string
}

// NewAPIServer creates a server that answers /health and mounts apiHandler
// under /api.
func NewAPIServer(apiHandler http.Handler, cfg config.HTTPConfig) *APIServer {
	cfg = withFallbacks(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))

	r.Get("/health", health)
	r.Mount("/api", apiHandler)

	return &APIServer{
		server: &http.Server{
			Addr:              cfg.Host + ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		},
		tls:  cfg.TLSEnabled,
		cert: cfg.TLSCertFile,
		key:  cfg.TLSKeyFile,
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
	}
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *APIServer) Start() error {
	slog.Info("starting HTTP server", "addr", s.server.Addr, "tls", s.tls)

	var err error
	if s.tls {
		err = s.server.ListenAndServeTLS(s.cert, s.key)
	} else {
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for outstanding requests
// until ctx is done.
func (s *APIServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// WrapHandler replaces the root handler with wrap(root).
func (s *APIServer) WrapHandler(wrap func(http.Handler) http.Handler) {
	s.server.Handler = wrap(s.server.Handler)
}
