// Package gibs builds NASA Global Imagery Browse Services tile URL templates
// for map clients. Nothing is fetched server-side; the template is handed to
// the frontend as-is.
package gibs

import (
	"fmt"
	"strings"

	"github.com/orbitx/enviro-engine/internal/config"
)

const (
	baseURL     = "https://gibs.earthdata.nasa.gov/wmts/epsg3857"
	attribution = "Imagery courtesy NASA Global Imagery Browse Services (GIBS)"
)

// TileConfig is the imagery configuration consumed by the map frontend.
type TileConfig struct {
	URLTemplate   string `json:"urlTemplate"`
	Attribution   string `json:"attribution"`
	Layer         string `json:"layer"`
	TileMatrixSet string `json:"tileMatrixSet"`
	Time          string `json:"time"`
	ImageFormat   string `json:"imageFormat"`
}

// Overrides are optional per-request replacements for the configured values.
// Empty fields fall back to config.
type Overrides struct {
	Layer         string
	TileMatrixSet string
	Time          string
	ImageFormat   string
}

// BuildTileConfig assembles the GIBS WMTS tile URL template from config plus
// any overrides.
func BuildTileConfig(cfg *config.Config, o Overrides) TileConfig {
	layer := orDefault(o.Layer, cfg.GibsLayer)
	tileMatrixSet := orDefault(o.TileMatrixSet, cfg.GibsTileMatrixSet)
	tileTime := orDefault(o.Time, cfg.GibsTime)
	imageFormat := orDefault(o.ImageFormat, cfg.GibsImageFormat)

	extension := strings.ToLower(imageFormat)
	urlTemplate := fmt.Sprintf("%s/best/%s/%s/%s/{z}/{y}/{x}.%s",
		baseURL, layer, tileTime, tileMatrixSet, extension)

	return TileConfig{
		URLTemplate:   urlTemplate,
		Attribution:   attribution,
		Layer:         layer,
		TileMatrixSet: tileMatrixSet,
		Time:          tileTime,
		ImageFormat:   imageFormat,
	}
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
