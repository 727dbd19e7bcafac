package domain

// Minimal GeoJSON types for the map overview response. Only the shapes the
// frontend consumes are modeled; this is not a general GeoJSON library.

// FeatureCollection is a GeoJSON FeatureCollection of grid-cell polygons.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one GeoJSON polygon feature with grid-cell properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Polygon        `json:"geometry"`
	Properties CellProperties `json:"properties"`
}

// Polygon is a GeoJSON polygon geometry: one exterior ring of [lon, lat]
// positions, closed (first == last).
type Polygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// CellProperties carries a cell's fields without its position; position lives
// in the geometry.
type CellProperties struct {
	LST            float64 `json:"lst"`
	NDVI           float64 `json:"ndvi"`
	Precipitation  float64 `json:"precipitation"`
	Elevation      float64 `json:"elevation"`
	NO2            float64 `json:"no2"`
	O3             float64 `json:"o3"`
	HeatRisk       float64 `json:"heat_risk"`
	FloodRisk      float64 `json:"flood_risk"`
	AirQuality     float64 `json:"air_quality"`
	GreennessIndex float64 `json:"greenness_index"`
}

// CellPolygon converts a grid cell into a square polygon feature spanning
// half a cell spacing in each direction.
func CellPolygon(cell GridCell, spacingDegrees float64) Feature {
	half := spacingDegrees / 2

	ring := [][2]float64{
		{cell.Lon - half, cell.Lat - half},
		{cell.Lon + half, cell.Lat - half},
		{cell.Lon + half, cell.Lat + half},
		{cell.Lon - half, cell.Lat + half},
		{cell.Lon - half, cell.Lat - half},
	}

	return Feature{
		Type: "Feature",
		Geometry: Polygon{
			Type:        "Polygon",
			Coordinates: [][][2]float64{ring},
		},
		Properties: CellProperties{
			LST:            cell.LST,
			NDVI:           cell.NDVI,
			Precipitation:  cell.Precipitation,
			Elevation:      cell.Elevation,
			NO2:            cell.NO2,
			O3:             cell.O3,
			HeatRisk:       cell.HeatRisk,
			FloodRisk:      cell.FloodRisk,
			AirQuality:     cell.AirQuality,
			GreennessIndex: cell.GreennessIndex,
		},
	}
}
