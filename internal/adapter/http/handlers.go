package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/orbitx/enviro-engine/internal/domain"
)

// coordinates parses the lat/lon query parameters shared by the summary and
// overview endpoints. Both are required.
func coordinates(r *http.Request) (lat, lon float64, err error) {
	q := r.URL.Query()

	lat, err = parseFloatParam(q.Get("lat"), "lat", true)
	if err != nil {
		return 0, 0, err
	}
	lon, err = parseFloatParam(q.Get("lon"), "lon", true)
	if err != nil {
		return 0, 0, err
	}

	if lat < -90 || lat > 90 {
		return 0, 0, domain.NewValidationError("lat", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return 0, 0, domain.NewValidationError("lon", "must be between -180 and 180")
	}
	return lat, lon, nil
}

// gridParams parses the optional radius_km and grid_size parameters. Zero
// values mean "use the service default".
func gridParams(r *http.Request) (radiusKm float64, gridSize int, err error) {
	q := r.URL.Query()

	if raw := q.Get("radius_km"); raw != "" {
		radiusKm, err = parseFloatParam(raw, "radius_km", false)
		if err != nil {
			return 0, 0, err
		}
	}
	if raw := q.Get("grid_size"); raw != "" {
		gridSize, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("grid_size", "must be an integer")
		}
	}
	return radiusKm, gridSize, nil
}

func parseFloatParam(raw, field string, required bool) (float64, error) {
	if raw == "" {
		if required {
			return 0, domain.NewValidationError(field, "is required")
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError(field, "must be a number")
	}
	return v, nil
}

func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	radiusKm, gridSize, err := gridParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.summaries.Summary(lat, lon, radiusKm, gridSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMapOverview(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coordinates(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	radiusKm, gridSize, err := gridParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	overview, err := s.summaries.MapOverview(lat, lon, radiusKm, gridSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req domain.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}

	result, err := s.simulator.Simulate(req)
	if err != nil {
		s.metrics.SimulationsRun.WithLabelValues("error").Inc()
		s.writeError(w, err)
		return
	}
	s.metrics.SimulationsRun.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleInterventions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Catalogue())
}
