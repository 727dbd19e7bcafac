// Package enviro serves environmental summaries: deterministic grid synthesis
// plus aggregation, fronted by an in-memory LRU cache. Synthesis is pure, so
// a (center, grid size) pair is a perfect cache key.
package enviro

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
	"github.com/orbitx/enviro-engine/internal/synth"
)

// Default query parameters, applied when the caller omits them.
const (
	DefaultRadiusKm = 5
	DefaultGridSize = 9
)

// Service produces environmental summaries and map overviews.
type Service struct {
	synthesizer *synth.Synthesizer
	cache       *lruCache
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewService creates a Service with the given cache capacity.
func NewService(s *synth.Synthesizer, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		synthesizer: s,
		cache:       newLRUCache(cacheSize),
		clock:       clockwork.NewRealClock(),
		logger:      logger,
		metrics:     metrics,
	}
}

// SetClock swaps the time source used for summary timestamps. Pass nil to
// reset to real time.
func (s *Service) SetClock(clk clockwork.Clock) {
	if clk == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = clk
}

// Summary synthesizes (or recalls) the environmental field around a center
// point. The acquisition timestamp is always fresh; everything else is
// deterministic in the inputs.
func (s *Service) Summary(lat, lon, radiusKm float64, gridSize int) (domain.EnvironmentalResponse, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if gridSize == 0 {
		gridSize = DefaultGridSize
	}

	key := fmt.Sprintf("%.6f|%.6f|%d", lat, lon, gridSize)
	entry, ok := s.cache.get(key)
	if ok {
		s.metrics.SummaryCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.SummaryCache.WithLabelValues("miss").Inc()

		cells, err := s.synthesizer.Synthesize(lat, lon, gridSize)
		if err != nil {
			return domain.EnvironmentalResponse{}, err
		}
		stats, risks, err := synth.Summarize(cells)
		if err != nil {
			return domain.EnvironmentalResponse{}, err
		}

		entry = cachedGrid{cells: cells, stats: stats, risks: risks}
		s.cache.put(key, entry)
		s.metrics.SummariesGenerated.Inc()
	}

	return domain.EnvironmentalResponse{
		Summary: domain.EnvironmentalSummary{
			CenterLat:  lat,
			CenterLon:  lon,
			RadiusKm:   radiusKm,
			AcquiredAt: s.clock.Now().UTC(),
			Stats:      entry.stats,
			Grid:       entry.cells,
		},
		Risks: entry.risks,
	}, nil
}

// MapOverview is Summary with the grid additionally rendered as GeoJSON cell
// polygons for the map layer.
func (s *Service) MapOverview(lat, lon, radiusKm float64, gridSize int) (domain.MapOverview, error) {
	resp, err := s.Summary(lat, lon, radiusKm, gridSize)
	if err != nil {
		return domain.MapOverview{}, err
	}

	features := make([]domain.Feature, 0, len(resp.Summary.Grid))
	for _, cell := range resp.Summary.Grid {
		features = append(features, domain.CellPolygon(cell, synth.CellSpacingDegrees))
	}

	return domain.MapOverview{
		Summary: resp.Summary,
		Risks:   resp.Risks,
		Grid: domain.FeatureCollection{
			Type:     "FeatureCollection",
			Features: features,
		},
	}, nil
}

// CheckReadiness verifies the synthesizer produces a non-empty field.
func (s *Service) CheckReadiness(_ context.Context) error {
	cells, err := s.synthesizer.Synthesize(0, 0, 1)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return fmt.Errorf("synthesizer returned an empty grid")
	}
	return nil
}
