// Command ingest runs one asset refresh: either the recent satellite
// granules for the configured product, or the elevation tile covering a
// coordinate. It is intended to run from cron or an operator shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/orbitx/enviro-engine/internal/adapter/earthdata"
	kafkaadapter "github.com/orbitx/enviro-engine/internal/adapter/kafka"
	"github.com/orbitx/enviro-engine/internal/adapter/laads"
	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/ingest"
	"github.com/orbitx/enviro-engine/internal/observability"
	"github.com/orbitx/enviro-engine/internal/tiles"
)

func main() {
	mode := flag.String("mode", "granules", "what to ingest: granules or elevation")
	lat := flag.Float64("lat", 0, "latitude for elevation mode")
	lon := flag.Float64("lon", 0, "longitude for elevation mode")
	flag.Parse()

	if *mode != "granules" && *mode != "elevation" {
		fmt.Fprintf(os.Stderr, "unknown mode %q: want granules or elevation\n", *mode)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *mode, *lat, *lon); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, lat, lon float64) error {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	granules := laads.NewClient(cfg, logger, metrics)
	elevation := earthdata.NewClient(cfg, logger, metrics)
	pipeline := tiles.New(nil, cfg, logger, metrics)

	var publisher ingest.Publisher
	if cfg.EventsEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("layer events enabled", "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("layer events disabled")
	}

	job := ingest.NewJob(granules, elevation, pipeline, publisher, cfg, logger, metrics)

	switch mode {
	case "granules":
		err = job.RunGranules(ctx)
	case "elevation":
		err = job.RunElevation(ctx, lat, lon)
	}
	if err != nil {
		logger.Error("ingest failed", "mode", mode, "error", err)
		return err
	}
	logger.Info("ingest complete", "mode", mode)
	return nil
}
