package synth

import (
	"math"

	"github.com/orbitx/enviro-engine/internal/domain"
)

// CellSpacingDegrees is the angular distance between adjacent grid cells,
// roughly 500 m at the equator.
const CellSpacingDegrees = 0.005

// Synthesizer produces deterministic synthetic environmental grids. It is a
// pure function of its inputs: no I/O, no wall clock, no hidden randomness.
type Synthesizer struct {
	hasher Hasher
}

// NewSynthesizer creates a Synthesizer. Pass nil to use the default SinHasher.
func NewSynthesizer(h Hasher) *Synthesizer {
	if h == nil {
		h = SinHasher{}
	}
	return &Synthesizer{hasher: h}
}

// Synthesize generates a gridSize x gridSize field of cells centered on the
// given point, in row-major order from the most negative row and column
// offsets. The ordering is fixed and identical across calls. gridSize must be
// positive and is effectively treated as odd so the center cell exists.
func (s *Synthesizer) Synthesize(centerLat, centerLon float64, gridSize int) ([]domain.GridCell, error) {
	if gridSize < 1 {
		return nil, domain.NewValidationError("grid_size", "must be a positive integer")
	}

	half := gridSize / 2
	cells := make([]domain.GridCell, 0, gridSize*gridSize)
	pr := s.hasher.Hash

	for row := -half; row <= half; row++ {
		for col := -half; col <= half; col++ {
			lat := centerLat + float64(row)*CellSpacingDegrees
			lon := centerLon + float64(col)*CellSpacingDegrees
			seed := float64((row+half)*gridSize + (col + half))

			// base ties the cell to its actual position so the same seed at a
			// different center produces a different field.
			base := pr(lat*lon*1000 + seed)

			lst := 25 + pr(seed+1+base)*12 // 25-37 °C
			ndvi := clamp(0.2+pr(seed+2)*0.6, 0, 1)
			precipitation := 2 + pr(seed+3)*4 // mm/hr
			elevation := 10 + pr(seed+4)*30
			no2 := 15 + pr(seed+5)*20
			o3 := 20 + pr(seed+6)*30

			heatRisk := clamp((lst-24)/15, 0, 1)
			floodRisk := clamp(1-precipitation/6+pr(seed+7)*0.2, 0, 1)
			airQuality := clamp(1-no2/50, 0, 1)
			greenness := ndvi

			cells = append(cells, domain.GridCell{
				Lat:            lat,
				Lon:            lon,
				LST:            round2(lst),
				NDVI:           round3(ndvi),
				Precipitation:  round2(precipitation),
				Elevation:      round2(elevation),
				NO2:            round2(no2),
				O3:             round2(o3),
				HeatRisk:       round3(heatRisk),
				FloodRisk:      round3(floodRisk),
				AirQuality:     round3(airQuality),
				GreennessIndex: round3(greenness),
			})
		}
	}

	return cells, nil
}

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// round2 and round3 are part of the synthesizer's contract: aggregation and
// tests depend on cells carrying already-rounded values.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
