package domain

import "time"

// GridCell is one synthetic environmental sample. All numeric fields are
// rounded before the cell leaves the synthesizer: physical fields to 2
// decimals, NDVI and risk fractions to 3. Cells are never mutated after
// construction.
type GridCell struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	LST           float64 `json:"lst"`           // land surface temperature, °C
	NDVI          float64 `json:"ndvi"`          // vegetation index, 0-1
	Precipitation float64 `json:"precipitation"` // mm/hr
	Elevation     float64 `json:"elevation"`     // m
	NO2           float64 `json:"no2"`
	O3            float64 `json:"o3"`

	HeatRisk       float64 `json:"heat_risk"`
	FloodRisk      float64 `json:"flood_risk"`
	AirQuality     float64 `json:"air_quality"`
	GreennessIndex float64 `json:"greenness_index"`
}

// GridStats holds per-field aggregates over a full grid.
type GridStats struct {
	LSTMin            float64 `json:"lst_min"`
	LSTMax            float64 `json:"lst_max"`
	LSTMean           float64 `json:"lst_mean"`
	NDVIMean          float64 `json:"ndvi_mean"`
	PrecipitationMean float64 `json:"precipitation_mean"`
	ElevationMean     float64 `json:"elevation_mean"`
	NO2Mean           float64 `json:"no2_mean"`
	O3Mean            float64 `json:"o3_mean"`
}

// EnvironmentalSummary is a synthesized grid plus its aggregates. Cells are
// ordered row-major from the north-west corner; len(Grid) is always the
// square of the requested grid size.
type EnvironmentalSummary struct {
	CenterLat  float64    `json:"center_lat"`
	CenterLon  float64    `json:"center_lon"`
	RadiusKm   float64    `json:"radius_km"`
	AcquiredAt time.Time  `json:"acquired_at"`
	Stats      GridStats  `json:"stats"`
	Grid       []GridCell `json:"grid"`
}

// RiskScores are composite risk fractions averaged over a grid, plus two raw
// physical means kept in their native units.
type RiskScores struct {
	HeatRisk       float64 `json:"heat_risk"`
	FloodRisk      float64 `json:"flood_risk"`
	AirQuality     float64 `json:"air_quality"`
	GreennessIndex float64 `json:"greenness_index"`
	NO2            float64 `json:"no2"` // mean concentration, not a fraction
	LST            float64 `json:"lst"` // mean °C, not a fraction
}

// EnvironmentalResponse pairs a summary with its composite risk scores; the
// shape returned to API callers.
type EnvironmentalResponse struct {
	Summary EnvironmentalSummary `json:"summary"`
	Risks   RiskScores           `json:"risks"`
}

// MapOverview is an EnvironmentalResponse with the grid re-expressed as
// GeoJSON cell polygons for map rendering.
type MapOverview struct {
	Summary EnvironmentalSummary `json:"summary"`
	Risks   RiskScores           `json:"risks"`
	Grid    FeatureCollection    `json:"grid"`
}

// Granule identifies one remote satellite data file for a product, collection,
// and acquisition date. Value object; URL is derived, never fetched from.
type Granule struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"` // as reported by the index, e.g. "2026-08-30 09:15"
	Year         int    `json:"year"`
	DayOfYear    int    `json:"day_of_year"` // 1-366
	Product      string `json:"product"`
	Collection   string `json:"collection"`
	URL          string `json:"url"`
}

// DateRef is a calendar year plus 1-based day-of-year.
type DateRef struct {
	Year      int
	DayOfYear int
}

// SrtmTile identifies one 1°x1° elevation tile. The ID encodes hemisphere and
// integer degrees, e.g. N23E090.
type SrtmTile struct {
	ID      string `json:"tile"`
	Dataset string `json:"dataset"`
	Release string `json:"release"`
	URL     string `json:"url"`
}

// LayerEvent announces that a tile layer was (re)published under the tile
// root; emitted to downstream consumers after a successful pipeline run.
type LayerEvent struct {
	Layer       string    `json:"layer"`
	Product     string    `json:"product,omitempty"`
	Granule     string    `json:"granule,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Intervention is one entry of the static intervention catalogue. Deltas are
// per-unit effects on the environmental baseline; Benefits maps co-benefit
// names to per-unit monetary value.
type Intervention struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Cost        float64            `json:"cost"`
	LST         float64            `json:"lst"`
	NDVI        float64            `json:"ndvi"`
	NO2         float64            `json:"no2"`
	Benefits    map[string]float64 `json:"benefits"`
}

// InterventionSelection pairs a catalogue id with a quantity.
type InterventionSelection struct {
	InterventionID string `json:"intervention_id"`
	Quantity       int    `json:"quantity"`
}

// SimulationRequest carries the selected interventions and the baseline state
// they are applied against. Baseline fractions are clamped to [0,1] on input.
type SimulationRequest struct {
	Interventions      []InterventionSelection `json:"interventions"`
	BaselineHeatRisk   float64                 `json:"baseline_heat_risk"`
	BaselineAirQuality float64                 `json:"baseline_air_quality"`
	BaselineNDVI       float64                 `json:"baseline_ndvi"`
}

// SimulationState is one environmental state vector: three fractions plus the
// NO2 concentration in physical units.
type SimulationState struct {
	HeatRisk   float64 `json:"heat_risk"`
	AirQuality float64 `json:"air_quality"`
	NDVI       float64 `json:"ndvi"`
	NO2        float64 `json:"no2"`
}

// SimulationImpact summarizes the difference between projected and baseline
// state along with costs, benefits, and return on investment.
type SimulationImpact struct {
	HeatRiskDelta   float64            `json:"heat_risk_delta"`
	AirQualityDelta float64            `json:"air_quality_delta"`
	NDVIDelta       float64            `json:"ndvi_delta"`
	NO2Delta        float64            `json:"no2_delta"`
	TotalCost       float64            `json:"total_cost"`
	TotalBenefits   float64            `json:"total_benefits"`
	ROI             float64            `json:"roi"`
	Breakdown       map[string]float64 `json:"breakdown"`
}

// SimulationResult is the full output of one simulation call.
type SimulationResult struct {
	Baseline  SimulationState  `json:"baseline"`
	Projected SimulationState  `json:"projected"`
	Impact    SimulationImpact `json:"impact"`
}
