// Package http exposes the engine over a JSON HTTP API: environmental
// summaries, intervention simulation, map configuration, and the published
// tile layers, alongside health and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitx/enviro-engine/internal/adapter/gibs"
	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
	"github.com/orbitx/enviro-engine/internal/simulate"
)

// SummaryService produces environmental summaries and map overviews.
type SummaryService interface {
	Summary(lat, lon, radiusKm float64, gridSize int) (domain.EnvironmentalResponse, error)
	MapOverview(lat, lon, radiusKm float64, gridSize int) (domain.MapOverview, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the engine API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	summaries  SummaryService
	simulator  *simulate.Simulator
	registry   *simulate.Registry
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer wires the API routes onto a configured http.Server.
func NewServer(cfg *config.Config, summaries SummaryService, simulator *simulate.Simulator,
	registry *simulate.Registry, ready ReadinessChecker, logger *slog.Logger,
	metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		summaries: summaries,
		simulator: simulator,
		registry:  registry,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/environment", s.handleEnvironment)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/interventions", s.handleInterventions)
	mux.HandleFunc("GET /api/map/config", s.handleMapConfig)
	mux.HandleFunc("GET /api/map/overview", s.handleMapOverview)

	tileServer := http.FileServer(http.Dir(cfg.TileDir))
	mux.Handle("GET /tiles/", http.StripPrefix("/tiles/", tileServer))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleMapConfig(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tileConfig := gibs.BuildTileConfig(s.cfg, gibs.Overrides{
		Layer:         q.Get("layer"),
		TileMatrixSet: q.Get("tile_matrix_set"),
		Time:          q.Get("time"),
		ImageFormat:   q.Get("image_format"),
	})
	writeJSON(w, http.StatusOK, tileConfig)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

// writeError maps domain errors onto HTTP statuses: bad input is 400, an
// unknown intervention id is 422, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var unknownErr *domain.UnknownInterventionError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &unknownErr):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
