// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package api serves the matcher over HTTP with a chi router. The server
// is read-only: every query resolves against the artifacts on disk, so a
// concurrent build simply becomes visible on the next request.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/internal/config"
	"github.com/filmatlas/filmatlas/internal/metrics"
)

// Server is the HTTP surface over the generated artifacts.
type Server struct {
	cfg          config.ServerConfig
	artifactsDir string
	logger       zerolog.Logger
	httpServer   *http.Server
}

// NewServer creates the server for the given configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:          cfg.Server,
		artifactsDir: cfg.Artifacts.Dir,
		logger:       logger.With().Str("component", "api").Logger(),
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}
	return s
}

// routes assembles the router and middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
		r.Get("/match", s.handleMatch)
		r.Get("/manifest", s.handleManifest)
	})

	return r
}

// Start runs the server until the context is canceled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID attaches a request id to the context and the response.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestID extracts the request id set by the middleware.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger logs every request with latency and records API metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		metrics.RecordAPIRequest(r.Method, r.URL.Path, ww.Status(), duration)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", duration).
			Str("request_id", requestID(r)).
			Msg("request")
	})
}
