package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all engine settings, populated from environment variables and
// passed explicitly into every component constructor. Engine logic never
// reads the environment directly.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// LAADS granule discovery and download.
	LaadsToken       string
	LaadsBaseURL     string
	LaadsTimeout     time.Duration
	ModisCollection  string
	ModisProduct     string
	ModisDaysBack    int
	ModisStorageDir  string
	IndexConcurrency int

	// Earthdata elevation tile download.
	EarthdataUsername string
	EarthdataPassword string
	SrtmDataset       string
	SrtmRelease       string
	SrtmStorageDir    string

	// GIBS imagery config surfaced to map clients.
	GibsLayer         string
	GibsTileMatrixSet string
	GibsTime          string
	GibsImageFormat   string

	// Tile pyramid output.
	TileDir     string
	TileZoomMin int
	TileZoomMax int

	SummaryCacheSize int

	// Layer-published event stream. Publishing is disabled when no brokers
	// are configured.
	KafkaBrokers     []string
	KafkaEventsTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset. Credentials are not required here; components that need them
// fail their own operations when they are absent.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	laadsTimeout, err := parseDuration("LAADS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	daysBack, err := parsePositiveInt("MODIS_DAYS_BACK", 1)
	if err != nil {
		return nil, err
	}
	concurrency, err := parsePositiveInt("INDEX_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("SUMMARY_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	zoomMin, err := parsePositiveInt("TILE_ZOOM_MIN", 12)
	if err != nil {
		return nil, err
	}
	zoomMax, err := parsePositiveInt("TILE_ZOOM_MAX", 14)
	if err != nil {
		return nil, err
	}
	if zoomMax < zoomMin {
		return nil, errors.New("TILE_ZOOM_MAX must be >= TILE_ZOOM_MIN")
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		LaadsToken:       os.Getenv("LAADS_TOKEN"),
		LaadsBaseURL:     envOrDefault("LAADS_BASE_URL", "https://nrt3.modaps.eosdis.nasa.gov/archive/allData"),
		LaadsTimeout:     laadsTimeout,
		ModisCollection:  envOrDefault("MODIS_COLLECTION", "61"),
		ModisProduct:     envOrDefault("MODIS_PRODUCT", "MOD11A1"),
		ModisDaysBack:    daysBack,
		ModisStorageDir:  envOrDefault("MODIS_STORAGE_DIR", "./data/modis"),
		IndexConcurrency: concurrency,

		EarthdataUsername: os.Getenv("EARTHDATA_USERNAME"),
		EarthdataPassword: os.Getenv("EARTHDATA_PASSWORD"),
		SrtmDataset:       envOrDefault("SRTM_DATASET", "SRTMGL1.003"),
		SrtmRelease:       envOrDefault("SRTM_RELEASE", "2015.02.25"),
		SrtmStorageDir:    envOrDefault("SRTM_STORAGE_DIR", "./data/srtm"),

		GibsLayer:         envOrDefault("GIBS_LAYER", "BlueMarble_NextGeneration"),
		GibsTileMatrixSet: envOrDefault("GIBS_TILE_MATRIX_SET", "GoogleMapsCompatible_Level9"),
		GibsTime:          envOrDefault("GIBS_TIME", "default"),
		GibsImageFormat:   envOrDefault("GIBS_IMAGE_FORMAT", "jpg"),

		TileDir:     envOrDefault("TILE_DIR", "./tiles"),
		TileZoomMin: zoomMin,
		TileZoomMax: zoomMax,

		SummaryCacheSize: cacheSize,

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic: envOrDefault("KAFKA_EVENTS_TOPIC", "layer-published-events"),
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaEventsTopic == "" {
		return nil, errors.New("KAFKA_EVENTS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// EventsEnabled reports whether the layer-published event stream is
// configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
