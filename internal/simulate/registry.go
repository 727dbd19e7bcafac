package simulate

import (
	"sort"

	"github.com/orbitx/enviro-engine/internal/domain"
)

// Registry is an immutable snapshot of the intervention catalogue. Loaded
// once at startup; a catalogue update means building a new Registry with
// NewRegistry, never mutating an existing one.
type Registry struct {
	interventions map[string]domain.Intervention
}

// NewRegistry snapshots the given catalogue. The input map is copied so later
// caller mutations cannot leak into the registry.
func NewRegistry(catalogue map[string]domain.Intervention) *Registry {
	snapshot := make(map[string]domain.Intervention, len(catalogue))
	for id, iv := range catalogue {
		benefits := make(map[string]float64, len(iv.Benefits))
		for k, v := range iv.Benefits {
			benefits[k] = v
		}
		iv.Benefits = benefits
		snapshot[id] = iv
	}
	return &Registry{interventions: snapshot}
}

// DefaultRegistry returns a registry loaded with the built-in catalogue.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultCatalogue)
}

// Get looks up an intervention by id.
func (r *Registry) Get(id string) (domain.Intervention, bool) {
	iv, ok := r.interventions[id]
	return iv, ok
}

// IDs returns all catalogue ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.interventions))
	for id := range r.interventions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Catalogue returns a copy of the full catalogue keyed by id.
func (r *Registry) Catalogue() map[string]domain.Intervention {
	out := make(map[string]domain.Intervention, len(r.interventions))
	for id, iv := range r.interventions {
		out[id] = iv
	}
	return out
}

// defaultCatalogue holds the built-in urban interventions. Costs are per-unit
// monetary figures; LST/NDVI/NO2 are per-unit deltas applied during
// simulation; benefits map co-benefit names to per-unit monetary value.
var defaultCatalogue = map[string]domain.Intervention{
	"cool-roofs": {
		Name:        "Cool Roof Coatings",
		Description: "High-albedo coatings to reduce roof surface temperatures and building cooling loads.",
		Cost:        120000,
		LST:         -0.05,
		NDVI:        0.01,
		NO2:         -0.005,
		Benefits: map[string]float64{
			"avoided_heat_emergencies": 35000,
			"energy_savings":           42000,
			"productivity_gain":        28000,
		},
	},
	"urban-tree-canopy": {
		Name:        "Urban Tree Canopy Expansion",
		Description: "Targeted street tree planting focused on low-canopy neighborhoods.",
		Cost:        90000,
		LST:         -0.08,
		NDVI:        0.05,
		NO2:         -0.01,
		Benefits: map[string]float64{
			"stormwater_management": 26000,
			"air_quality":           31000,
			"property_value":        22000,
		},
	},
	"green-roofs": {
		Name:        "Green Roof Retrofit",
		Description: "Install vegetated roof systems on municipal buildings to retain stormwater and lower heat stress.",
		Cost:        150000,
		LST:         -0.06,
		NDVI:        0.07,
		NO2:         -0.012,
		Benefits: map[string]float64{
			"heat_risk":            40000,
			"biodiversity":         18000,
			"building_performance": 36000,
		},
	},
	"permeable-pavement": {
		Name:        "Permeable Pavement",
		Description: "Replace impervious surfaces with permeable materials to increase infiltration and reduce runoff.",
		Cost:        75000,
		LST:         -0.03,
		NDVI:        0.02,
		NO2:         -0.004,
		Benefits: map[string]float64{
			"flood_risk":          33000,
			"maintenance_savings": 19000,
			"cooling_effect":      17000,
		},
	},
	"community-cooling-centers": {
		Name:        "Community Cooling Centers",
		Description: "Retrofit community centers with high-efficiency cooling and backup power for heat emergencies.",
		Cost:        60000,
		LST:         -0.02,
		NDVI:        0,
		NO2:         -0.001,
		Benefits: map[string]float64{
			"public_health":      45000,
			"social_resilience":  22000,
			"emergency_response": 18000,
		},
	},
}
