// Package simulate projects the effect of urban interventions onto an
// environmental baseline. Simulation is a pure function of the request and
// the registry snapshot: no side effects, no persistence.
package simulate

import (
	"math"

	"github.com/orbitx/enviro-engine/internal/domain"
)

// Baseline NO2 is a fixed planning constant, not caller-supplied; the
// projected concentration stays within a plausible urban band.
const (
	baselineNO2 = 32
	no2Floor    = 5
	no2Ceiling  = 60
)

// Simulator applies intervention effect vectors against a baseline state.
type Simulator struct {
	registry *Registry
}

// NewSimulator creates a Simulator over the given registry snapshot.
func NewSimulator(r *Registry) *Simulator {
	return &Simulator{registry: r}
}

// Simulate accumulates the per-unit deltas, costs, and co-benefits of every
// selected intervention and applies them to the clamped baseline. Any
// unrecognized intervention id fails the entire call; there is no partial
// simulation. Negative quantities are floored at zero.
func (s *Simulator) Simulate(req domain.SimulationRequest) (domain.SimulationResult, error) {
	var heatDelta, airDelta, ndviDelta, no2Delta, totalCost float64
	breakdown := map[string]float64{}

	for _, sel := range req.Interventions {
		iv, ok := s.registry.Get(sel.InterventionID)
		if !ok {
			return domain.SimulationResult{}, &domain.UnknownInterventionError{ID: sel.InterventionID}
		}

		quantity := float64(max(0, sel.Quantity))
		heatDelta += iv.LST * quantity
		airDelta += -iv.NO2 * quantity
		ndviDelta += iv.NDVI * quantity
		no2Delta += iv.NO2 * quantity
		totalCost += iv.Cost * quantity

		for key, value := range iv.Benefits {
			breakdown[key] += value * quantity
		}
	}

	baseline := domain.SimulationState{
		HeatRisk:   clamp(req.BaselineHeatRisk, 0, 1),
		AirQuality: clamp(req.BaselineAirQuality, 0, 1),
		NDVI:       clamp(req.BaselineNDVI, 0, 1),
		NO2:        baselineNO2,
	}

	projected := domain.SimulationState{
		HeatRisk:   clamp(baseline.HeatRisk+heatDelta, 0, 1),
		AirQuality: clamp(baseline.AirQuality+airDelta, 0, 1),
		NDVI:       clamp(baseline.NDVI+ndviDelta, 0, 1),
		NO2:        clamp(baseline.NO2+no2Delta, no2Floor, no2Ceiling),
	}

	var totalBenefits float64
	for _, value := range breakdown {
		totalBenefits += value
	}

	roundedBreakdown := make(map[string]float64, len(breakdown))
	for key, value := range breakdown {
		roundedBreakdown[key] = math.Round(value)
	}

	roi := 0.0
	if totalCost != 0 {
		roi = round2(totalBenefits / totalCost)
	}

	impact := domain.SimulationImpact{
		HeatRiskDelta:   round3(projected.HeatRisk - baseline.HeatRisk),
		AirQualityDelta: round3(projected.AirQuality - baseline.AirQuality),
		NDVIDelta:       round3(projected.NDVI - baseline.NDVI),
		NO2Delta:        round2(projected.NO2 - baseline.NO2),
		TotalCost:       math.Round(totalCost),
		TotalBenefits:   math.Round(totalBenefits),
		ROI:             roi,
		Breakdown:       roundedBreakdown,
	}

	return domain.SimulationResult{
		Baseline:  baseline,
		Projected: projected,
		Impact:    impact,
	}, nil
}

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
