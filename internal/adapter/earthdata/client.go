// Package earthdata downloads SRTM elevation tiles from the LP DAAC archive
// with Earthdata basic-auth credentials. The archive 302-redirects file
// requests to a signed storage URL, so the HTTP client follows redirects.
package earthdata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"

	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

const defaultBaseURL = "https://e4ftl01.cr.usgs.gov/MEASURES"

// Client downloads SRTM tiles.
type Client struct {
	username   string
	password   string
	baseURL    string
	dataset    string
	release    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Earthdata client from config. Credentials may be
// empty; Download fails with domain.ErrCredentialsMissing before any network
// call when they are.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		username:   cfg.EarthdataUsername,
		password:   cfg.EarthdataPassword,
		baseURL:    defaultBaseURL,
		dataset:    cfg.SrtmDataset,
		release:    cfg.SrtmRelease,
		httpClient: &http.Client{Timeout: cfg.LaadsTimeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// DescribeTile maps a coordinate to its 1°x1° SRTM tile descriptor. The tile
// id is purely a function of the coordinate, e.g. (23.81, 90.41) -> N23E090.
func (c *Client) DescribeTile(lat, lon float64) domain.SrtmTile {
	id := formatLat(lat) + formatLon(lon)
	return domain.SrtmTile{
		ID:      id,
		Dataset: c.dataset,
		Release: c.release,
		URL:     fmt.Sprintf("%s/%s/%s/%s.SRTMGL1.hgt.zip", c.baseURL, c.dataset, c.release, id),
	}
}

// Download streams the tile covering (lat, lon) into destinationDir and
// returns the local path. The directory is created if missing; the response
// body is streamed straight to disk.
func (c *Client) Download(ctx context.Context, lat, lon float64, destinationDir string) (string, error) {
	if c.username == "" || c.password == "" {
		return "", fmt.Errorf("EARTHDATA_USERNAME/EARTHDATA_PASSWORD are not set: %w", domain.ErrCredentialsMissing)
	}

	tile := c.DescribeTile(lat, lon)
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tile.URL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GranuleDownloads.WithLabelValues("earthdata", "error").Inc()
		return "", fmt.Errorf("download srtm tile %s: %w", tile.ID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.metrics.GranuleDownloads.WithLabelValues("earthdata", "error").Inc()
		return "", fmt.Errorf("srtm tile %s: %w", tile.ID, domain.ErrCredentialsRejected)
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.GranuleDownloads.WithLabelValues("earthdata", "error").Inc()
		return "", fmt.Errorf("srtm tile %s at %s: %w", tile.ID, tile.URL, domain.ErrRemoteNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GranuleDownloads.WithLabelValues("earthdata", "error").Inc()
		return "", &domain.RemoteError{Op: "srtm download", Status: resp.StatusCode, Body: string(body)}
	}

	path := filepath.Join(destinationDir, tile.ID+".SRTMGL1.hgt.zip")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(path)
		c.metrics.GranuleDownloads.WithLabelValues("earthdata", "error").Inc()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	c.metrics.GranuleDownloads.WithLabelValues("earthdata", "success").Inc()
	c.metrics.DownloadedBytes.Add(float64(written))
	c.logger.Info("srtm tile downloaded", "tile", tile.ID, "bytes", written, "path", path)
	return path, nil
}

func formatLat(lat float64) string {
	hemisphere := "N"
	if lat < 0 {
		hemisphere = "S"
	}
	return fmt.Sprintf("%s%02d", hemisphere, int(math.Floor(math.Abs(lat))))
}

func formatLon(lon float64) string {
	hemisphere := "E"
	if lon < 0 {
		hemisphere = "W"
	}
	return fmt.Sprintf("%s%03d", hemisphere, int(math.Floor(math.Abs(lon))))
}
