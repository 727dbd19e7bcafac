package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Empty(t, cfg.LaadsToken)
	assert.Equal(t, "https://nrt3.modaps.eosdis.nasa.gov/archive/allData", cfg.LaadsBaseURL)
	assert.Equal(t, 30*time.Second, cfg.LaadsTimeout)
	assert.Equal(t, "61", cfg.ModisCollection)
	assert.Equal(t, "MOD11A1", cfg.ModisProduct)
	assert.Equal(t, 1, cfg.ModisDaysBack)
	assert.Equal(t, "./data/modis", cfg.ModisStorageDir)
	assert.Equal(t, 1, cfg.IndexConcurrency)

	assert.Equal(t, "SRTMGL1.003", cfg.SrtmDataset)
	assert.Equal(t, "2015.02.25", cfg.SrtmRelease)
	assert.Equal(t, "./data/srtm", cfg.SrtmStorageDir)

	assert.Equal(t, "BlueMarble_NextGeneration", cfg.GibsLayer)
	assert.Equal(t, "GoogleMapsCompatible_Level9", cfg.GibsTileMatrixSet)
	assert.Equal(t, "default", cfg.GibsTime)
	assert.Equal(t, "jpg", cfg.GibsImageFormat)

	assert.Equal(t, "./tiles", cfg.TileDir)
	assert.Equal(t, 12, cfg.TileZoomMin)
	assert.Equal(t, 14, cfg.TileZoomMax)
	assert.Equal(t, 256, cfg.SummaryCacheSize)

	assert.Nil(t, cfg.KafkaBrokers)
	assert.False(t, cfg.EventsEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("LAADS_TOKEN", "tok-123")
	t.Setenv("MODIS_PRODUCT", "MYD11A1")
	t.Setenv("MODIS_DAYS_BACK", "3")
	t.Setenv("INDEX_CONCURRENCY", "4")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, "tok-123", cfg.LaadsToken)
	assert.Equal(t, "MYD11A1", cfg.ModisProduct)
	assert.Equal(t, 3, cfg.ModisDaysBack)
	assert.Equal(t, 4, cfg.IndexConcurrency)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "negative duration", key: "LAADS_TIMEOUT", value: "-5s"},
		{name: "non-numeric int", key: "MODIS_DAYS_BACK", value: "two"},
		{name: "negative int", key: "INDEX_CONCURRENCY", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ZoomRangeValidation(t *testing.T) {
	t.Setenv("TILE_ZOOM_MIN", "14")
	t.Setenv("TILE_ZOOM_MAX", "12")

	_, err := Load()
	require.Error(t, err)
}
