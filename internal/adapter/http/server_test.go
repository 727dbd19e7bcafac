package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	httpadapter "github.com/orbitx/enviro-engine/internal/adapter/http"
	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/enviro"
	"github.com/orbitx/enviro-engine/internal/observability"
	"github.com/orbitx/enviro-engine/internal/simulate"
	"github.com/orbitx/enviro-engine/internal/synth"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()

	cfg := &config.Config{
		HTTPAddr:          ":0",
		GibsLayer:         "MODIS_Terra_Land_Surface_Temp_Day",
		GibsTileMatrixSet: "GoogleMapsCompatible_Level9",
		GibsTime:          "default",
		GibsImageFormat:   "PNG",
		TileDir:           t.TempDir(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	service := enviro.NewService(synth.NewSynthesizer(nil), 16, logger, metrics)
	registry := simulate.DefaultRegistry()

	return httpadapter.NewServer(cfg, service, simulate.NewSimulator(registry), registry,
		&mockReadiness{err: readyErr}, logger, metrics)
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(t, fmt.Errorf("synthesizer unavailable")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "synthesizer unavailable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEnvironmentReturnsSummaryAndRisks(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/environment?lat=34.05&lon=-118.24&grid_size=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.EnvironmentalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Summary.Grid, 9)
	assert.GreaterOrEqual(t, resp.Risks.HeatRisk, 0.0)
	assert.LessOrEqual(t, resp.Risks.HeatRisk, 1.0)
	assert.False(t, resp.Summary.AcquiredAt.IsZero())
}

func TestEnvironmentIsDeterministic(t *testing.T) {
	srv := newTestServer(t, nil)

	first := get(t, srv, "/api/environment?lat=51.5&lon=-0.12")
	second := get(t, srv, "/api/environment?lat=51.5&lon=-0.12")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b domain.EnvironmentalResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Summary.Grid, b.Summary.Grid)
	assert.Equal(t, a.Risks, b.Risks)
}

func TestEnvironmentMissingLatReturns400(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/environment?lon=-118.24")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "lat")
}

func TestEnvironmentRejectsOutOfRangeCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"lat too large", "/api/environment?lat=91&lon=0"},
		{"lat too small", "/api/environment?lat=-90.5&lon=0"},
		{"lon too large", "/api/environment?lat=0&lon=180.1"},
		{"lon not numeric", "/api/environment?lat=0&lon=east"},
		{"grid size not integer", "/api/environment?lat=0&lon=0&grid_size=3.5"},
	}
	srv := newTestServer(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEnvironmentNegativeGridSizeReturns400(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/environment?lat=0&lon=0&grid_size=-3")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateReturnsResult(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{
		"interventions": [{"intervention_id": "cool-roofs", "quantity": 2}],
		"baseline_heat_risk": 0.5,
		"baseline_air_quality": 0.5,
		"baseline_ndvi": 0.4
	}`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 0.5, result.Baseline.HeatRisk)
	assert.InDelta(t, 240000, result.Impact.TotalCost, 1e-9)
	assert.Less(t, result.Projected.HeatRisk, result.Baseline.HeatRisk)
	assert.Contains(t, result.Impact.Breakdown, "energy_savings")
}

func TestSimulateUnknownInterventionReturns422(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{"interventions": [{"intervention_id": "orbital-mirrors", "quantity": 1}]}`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var respBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
	assert.Contains(t, respBody["error"], "orbital-mirrors")
}

func TestSimulateMalformedBodyReturns400(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterventionsListsCatalogue(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/interventions")

	require.Equal(t, http.StatusOK, rec.Code)

	var catalogue map[string]domain.Intervention
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalogue))

	assert.Len(t, catalogue, 5)
	assert.Contains(t, catalogue, "cool-roofs")
	assert.Contains(t, catalogue, "urban-tree-canopy")
	assert.Equal(t, "Cool Roof Coatings", catalogue["cool-roofs"].Name)
}

func TestMapConfigUsesConfiguredDefaults(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/map/config")

	require.Equal(t, http.StatusOK, rec.Code)

	var cfg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "MODIS_Terra_Land_Surface_Temp_Day", cfg["layer"])
	assert.Contains(t, cfg["urlTemplate"], "/best/MODIS_Terra_Land_Surface_Temp_Day/default/GoogleMapsCompatible_Level9/{z}/{y}/{x}.png")
}

func TestMapConfigHonorsOverrides(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/map/config?layer=VIIRS_SNPP_CorrectedReflectance_TrueColor&image_format=JPEG")

	require.Equal(t, http.StatusOK, rec.Code)

	var cfg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "VIIRS_SNPP_CorrectedReflectance_TrueColor", cfg["layer"])
	assert.Contains(t, cfg["urlTemplate"], ".jpeg")
}

func TestMapOverviewReturnsFeatureCollection(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/map/overview?lat=34.05&lon=-118.24&grid_size=3")

	require.Equal(t, http.StatusOK, rec.Code)

	var overview domain.MapOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))

	assert.Equal(t, "FeatureCollection", overview.Grid.Type)
	assert.Len(t, overview.Grid.Features, 9)
}

func TestTileServingMissingTileReturns404(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/tiles/elevation/12/1024/1536.png")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTileServingReturnsPublishedFile(t *testing.T) {
	tileDir := t.TempDir()
	cfg := &config.Config{
		HTTPAddr:        ":0",
		GibsImageFormat: "PNG",
		TileDir:         tileDir,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	service := enviro.NewService(synth.NewSynthesizer(nil), 16, logger, metrics)
	registry := simulate.DefaultRegistry()
	srv := httpadapter.NewServer(cfg, service, simulate.NewSimulator(registry), registry,
		&mockReadiness{}, logger, metrics)

	tilePath := filepath.Join(tileDir, "mod11a1", "12", "1024")
	require.NoError(t, os.MkdirAll(tilePath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tilePath, "1536.png"), []byte("png-bytes"), 0o644))

	rec := get(t, srv, "/tiles/mod11a1/12/1024/1536.png")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}
