package gibs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orbitx/enviro-engine/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		GibsLayer:         "BlueMarble_NextGeneration",
		GibsTileMatrixSet: "GoogleMapsCompatible_Level9",
		GibsTime:          "default",
		GibsImageFormat:   "jpg",
	}
}

func TestBuildTileConfig_Defaults(t *testing.T) {
	tc := BuildTileConfig(testConfig(), Overrides{})

	assert.Equal(t,
		"https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/BlueMarble_NextGeneration/default/GoogleMapsCompatible_Level9/{z}/{y}/{x}.jpg",
		tc.URLTemplate)
	assert.Equal(t, "BlueMarble_NextGeneration", tc.Layer)
	assert.Contains(t, tc.Attribution, "GIBS")
}

func TestBuildTileConfig_Overrides(t *testing.T) {
	tc := BuildTileConfig(testConfig(), Overrides{
		Layer:       "MODIS_Terra_Land_Surface_Temp_Day",
		Time:        "2026-08-30",
		ImageFormat: "PNG",
	})

	assert.Equal(t,
		"https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/MODIS_Terra_Land_Surface_Temp_Day/2026-08-30/GoogleMapsCompatible_Level9/{z}/{y}/{x}.png",
		tc.URLTemplate)
	// The reported format keeps the caller's casing; only the extension is lowered.
	assert.Equal(t, "PNG", tc.ImageFormat)
}
