// Package tiles turns downloaded geospatial rasters into XYZ tile pyramids
// through sequential GDAL stages: optional format translation, reprojection
// to Web Mercator, and pyramid generation. Output lands under
// <tileDir>/<layer>/<z>/<x>/<y>.png.
package tiles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

const webMercator = "EPSG:3857"

// Pipeline orchestrates the conversion stages for one asset at a time.
// Stages run strictly in sequence; the first failure aborts the remainder of
// that asset's pipeline but leaves other queued assets unaffected.
type Pipeline struct {
	runner  Runner
	tileDir string
	zoomMin int
	zoomMax int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. Pass a nil runner to shell out to the real GDAL
// tools.
func New(runner Runner, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &Pipeline{
		runner:  runner,
		tileDir: cfg.TileDir,
		zoomMin: cfg.TileZoomMin,
		zoomMax: cfg.TileZoomMax,
		logger:  logger,
		metrics: metrics,
	}
}

// ProcessElevation converts a downloaded SRTM raster into the "elevation"
// tile layer. Elevation assets are already single geospatial rasters, so no
// format translation stage is needed.
func (p *Pipeline) ProcessElevation(ctx context.Context, srcPath string) error {
	return p.process(ctx, srcPath, "elevation", false)
}

// ProcessGranule converts a downloaded satellite granule into the tile layer
// named after its product, lower-cased. HDF/NetCDF granules go through a
// GeoTIFF translation stage before reprojection.
func (p *Pipeline) ProcessGranule(ctx context.Context, srcPath, product string) error {
	return p.process(ctx, srcPath, strings.ToLower(product), true)
}

func (p *Pipeline) process(ctx context.Context, srcPath, layer string, translate bool) error {
	input := srcPath

	if translate {
		translated := stripExt(srcPath) + ".gtiff.tif"
		if err := p.runStage(ctx, "translate", "gdal_translate", "-of", "GTiff", srcPath, translated); err != nil {
			return err
		}
		input = translated
	}

	warped := stripExt(srcPath) + ".webmerc.tif"
	if err := p.runStage(ctx, "warp", "gdalwarp", "-t_srs", webMercator, input, warped); err != nil {
		return err
	}

	// The pyramid is generated into a staging directory and only renamed
	// into place once every stage has succeeded, so a failed run never
	// leaves a partially written layer visible to the tile server.
	staging := filepath.Join(p.tileDir, fmt.Sprintf(".staging-%s-%d", layer, os.Getpid()))
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	zoom := fmt.Sprintf("%d-%d", p.zoomMin, p.zoomMax)
	if err := p.runStage(ctx, "tiles", "gdal2tiles.py", "-z", zoom, "-w", "none", warped, staging); err != nil {
		os.RemoveAll(staging)
		return err
	}

	if err := p.publish(staging, layer); err != nil {
		os.RemoveAll(staging)
		return err
	}

	p.metrics.LayersPublished.Inc()
	p.logger.Info("tile layer published", "layer", layer, "source", srcPath,
		"zoom", zoom, "dir", filepath.Join(p.tileDir, layer))
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, stage, name string, args ...string) error {
	start := time.Now()
	err := p.runner.Run(ctx, stage, name, args...)
	p.metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.PipelineStageFailures.WithLabelValues(stage).Inc()
		p.logger.Error("pipeline stage failed", "stage", stage, "error", err)
		return &domain.StageError{Stage: stage, Err: err}
	}
	return nil
}

// publish swaps the staged pyramid into place under the layer name. Any
// previously published layer is replaced wholesale.
func (p *Pipeline) publish(staging, layer string) error {
	target := filepath.Join(p.tileDir, layer)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove previous layer %s: %w", layer, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return fmt.Errorf("publish layer %s: %w", layer, err)
	}
	return nil
}

func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
