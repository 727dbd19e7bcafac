package synth

import (
	"math"

	"github.com/orbitx/enviro-engine/internal/domain"
)

// Summarize computes per-field aggregates and composite risk scores over a
// synthesized grid. Aggregates are rounded the same way the individual cells
// were. The cell slice must be non-empty; callers guarantee gridSize >= 1.
func Summarize(cells []domain.GridCell) (domain.GridStats, domain.RiskScores, error) {
	if len(cells) == 0 {
		return domain.GridStats{}, domain.RiskScores{}, domain.NewValidationError("grid", "must contain at least one cell")
	}

	lstMin, lstMax := cells[0].LST, cells[0].LST
	var lst, ndvi, precipitation, elevation, no2, o3 float64
	var heat, flood, air, green float64

	for _, c := range cells {
		lstMin = math.Min(lstMin, c.LST)
		lstMax = math.Max(lstMax, c.LST)
		lst += c.LST
		ndvi += c.NDVI
		precipitation += c.Precipitation
		elevation += c.Elevation
		no2 += c.NO2
		o3 += c.O3
		heat += c.HeatRisk
		flood += c.FloodRisk
		air += c.AirQuality
		green += c.GreennessIndex
	}

	n := float64(len(cells))

	stats := domain.GridStats{
		LSTMin:            lstMin,
		LSTMax:            lstMax,
		LSTMean:           round2(lst / n),
		NDVIMean:          round3(ndvi / n),
		PrecipitationMean: round2(precipitation / n),
		ElevationMean:     round2(elevation / n),
		NO2Mean:           round2(no2 / n),
		O3Mean:            round2(o3 / n),
	}

	risks := domain.RiskScores{
		HeatRisk:       round3(heat / n),
		FloodRisk:      round3(flood / n),
		AirQuality:     round3(air / n),
		GreennessIndex: round3(green / n),
		NO2:            round2(no2 / n),
		LST:            round2(lst / n),
	}

	return stats, risks, nil
}
