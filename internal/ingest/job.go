// Package ingest orchestrates the operator-triggered refresh flow: discover
// remote assets, download them, run each through the tile pipeline, and
// announce published layers.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

// GranuleSource discovers and downloads satellite granules.
type GranuleSource interface {
	ListRecentGranules(ctx context.Context, daysBack int) ([]domain.Granule, error)
	Download(ctx context.Context, granule domain.Granule, destinationDir string) (string, error)
}

// ElevationSource downloads the SRTM tile covering a coordinate.
type ElevationSource interface {
	Download(ctx context.Context, lat, lon float64, destinationDir string) (string, error)
}

// TileProcessor converts a downloaded asset into a published tile layer.
type TileProcessor interface {
	ProcessElevation(ctx context.Context, srcPath string) error
	ProcessGranule(ctx context.Context, srcPath, product string) error
}

// Publisher announces published layers to downstream consumers.
type Publisher interface {
	PublishLayer(ctx context.Context, event domain.LayerEvent) error
}

// Job wires the sources, pipeline, and publisher together. One Job run maps
// each asset to a distinct file path, so runs must not overlap with
// themselves; the CLI enforces that by running one job per invocation.
type Job struct {
	granules  GranuleSource
	elevation ElevationSource
	pipeline  TileProcessor
	publisher Publisher // nil when event publishing is disabled

	modisDir string
	srtmDir  string
	daysBack int
	product  string

	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewJob creates an ingest job. publisher may be nil.
func NewJob(granules GranuleSource, elevation ElevationSource, pipeline TileProcessor, publisher Publisher,
	cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Job {
	return &Job{
		granules:  granules,
		elevation: elevation,
		pipeline:  pipeline,
		publisher: publisher,
		modisDir:  cfg.ModisStorageDir,
		srtmDir:   cfg.SrtmStorageDir,
		daysBack:  cfg.ModisDaysBack,
		product:   cfg.ModisProduct,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
}

// SetClock swaps the time source used for event timestamps. Pass nil to
// reset to real time.
func (j *Job) SetClock(clk clockwork.Clock) {
	if clk == nil {
		j.clock = clockwork.NewRealClock()
		return
	}
	j.clock = clk
}

// RunGranules refreshes the satellite product layer: every granule from the
// trailing date window is downloaded and tiled. A failure on one asset
// abandons that asset only; remaining assets still run. The combined error
// reports every per-asset failure.
func (j *Job) RunGranules(ctx context.Context) error {
	j.metrics.IngestRunning.Set(1)
	defer j.metrics.IngestRunning.Set(0)

	granules, err := j.granules.ListRecentGranules(ctx, j.daysBack)
	if err != nil {
		return fmt.Errorf("list recent granules: %w", err)
	}
	if len(granules) == 0 {
		j.logger.Info("no granules in window", "product", j.product, "days_back", j.daysBack)
		return nil
	}

	var errs []error
	for _, granule := range granules {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := j.ingestGranule(ctx, granule); err != nil {
			j.logger.Error("granule ingest failed", "granule", granule.Name, "error", err)
			errs = append(errs, fmt.Errorf("granule %s: %w", granule.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (j *Job) ingestGranule(ctx context.Context, granule domain.Granule) error {
	path, err := j.granules.Download(ctx, granule, j.modisDir)
	if err != nil {
		return err
	}
	if err := j.pipeline.ProcessGranule(ctx, path, granule.Product); err != nil {
		return err
	}

	j.publish(ctx, domain.LayerEvent{
		Layer:       strings.ToLower(granule.Product),
		Product:     granule.Product,
		Granule:     granule.Name,
		PublishedAt: j.clock.Now().UTC(),
	})
	return nil
}

// RunElevation refreshes the elevation layer for the tile covering the given
// coordinate.
func (j *Job) RunElevation(ctx context.Context, lat, lon float64) error {
	j.metrics.IngestRunning.Set(1)
	defer j.metrics.IngestRunning.Set(0)

	path, err := j.elevation.Download(ctx, lat, lon, j.srtmDir)
	if err != nil {
		return fmt.Errorf("download elevation tile: %w", err)
	}
	if err := j.pipeline.ProcessElevation(ctx, path); err != nil {
		return err
	}

	j.publish(ctx, domain.LayerEvent{
		Layer:       "elevation",
		PublishedAt: j.clock.Now().UTC(),
	})
	return nil
}

// publish emits a layer event when a publisher is configured. Event delivery
// is best-effort: a publish failure is logged, not propagated, because the
// tile layer is already live.
func (j *Job) publish(ctx context.Context, event domain.LayerEvent) {
	if j.publisher == nil {
		return
	}
	if err := j.publisher.PublishLayer(ctx, event); err != nil {
		j.logger.Warn("layer event publish failed", "layer", event.Layer, "error", err)
	}
}
