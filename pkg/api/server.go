// Package api serves the replay catalog over HTTP.
//
// All routes under /api/v1 require the X-API-Key header. /metrics is left
// open for scraping.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the HTTP handler for s. gatherer backs /metrics.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := s.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Replays
		r.Get("/replays", metrics.InstrumentHandler("GET", "/api/v1/replays", s.handleListReplays))
		r.Post("/replays", metrics.InstrumentHandler("POST", "/api/v1/replays", s.handleImportReplay))
		r.Get("/replays/{id}", metrics.InstrumentHandler("GET", "/api/v1/replays/{id}", s.handleGetReplay))
		r.Get("/replays/{id}/raw", metrics.InstrumentHandler("GET", "/api/v1/replays/{id}/raw", s.handleGetRaw))
		r.Delete("/replays/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/replays/{id}", s.handleDeleteReplay))

		// Move editing
		r.Get("/replays/{id}/moves", metrics.InstrumentHandler("GET", "/api/v1/replays/{id}/moves", s.handleListMoves))
		r.Post("/replays/{id}/moves", metrics.InstrumentHandler("POST", "/api/v1/replays/{id}/moves", s.handleInsertMove))
		r.Delete("/replays/{id}/moves/{index}",
			metrics.InstrumentHandler("DELETE", "/api/v1/replays/{id}/moves/{index}", s.handleDeleteMove))
		r.Get("/replays/{id}/playback", metrics.InstrumentHandler("GET", "/api/v1/replays/{id}/playback", s.handlePlayback))
	})

	return r
}

// newHTTPServer wires a server to a fresh metrics registry.
func newHTTPServer(store ReplayStore, config ServerConfig, logger *slog.Logger) (*http.Server, *Server) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server := NewServer(store, config, NewMetrics(reg), logger)

	return &http.Server{
		Addr:              net.JoinHostPort(config.Bind, strconv.Itoa(config.Port)),
		Handler:           NewRouter(server, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}, server
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, store ReplayStore, config ServerConfig, logger *slog.Logger) error {
	SwaggerInfo.Host = net.JoinHostPort("localhost", strconv.Itoa(config.Port))
	httpServer, server := newHTTPServer(store, config, logger)

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("starting shadowrec API server", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.logger.Info("shutting down API server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}
