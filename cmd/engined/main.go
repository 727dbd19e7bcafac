package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/orbitx/enviro-engine/internal/adapter/http"
	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/enviro"
	"github.com/orbitx/enviro-engine/internal/observability"
	"github.com/orbitx/enviro-engine/internal/simulate"
	"github.com/orbitx/enviro-engine/internal/synth"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	service := enviro.NewService(synth.NewSynthesizer(nil), cfg.SummaryCacheSize, logger, metrics)
	registry := simulate.DefaultRegistry()
	simulator := simulate.NewSimulator(registry)

	srv := httpadapter.NewServer(cfg, service, simulator, registry, service, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
