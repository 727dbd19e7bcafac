// Package laads discovers and downloads MODIS granules from the NASA LAADS
// DAAC archive. The archive exposes a per-day JSON index; granule files live
// alongside it under <base>/<collection>/<product>/<year>/<day>.
package laads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/orbitx/enviro-engine/internal/config"
	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

// rasterExtensions whitelists the granule file formats the tile pipeline can
// process. Index entries with any other extension are dropped.
var rasterExtensions = []string{".hdf", ".nc"}

// Client queries the LAADS per-day index and downloads granule files with
// bearer-token authentication.
type Client struct {
	token       string
	baseURL     string
	collection  string
	product     string
	daysBack    int
	concurrency int
	httpClient  *http.Client
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a LAADS client from config. The token may be empty; any
// operation that needs it fails with domain.ErrCredentialsMissing before
// touching the network.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	concurrency := cfg.IndexConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		token:       cfg.LaadsToken,
		baseURL:     cfg.LaadsBaseURL,
		collection:  cfg.ModisCollection,
		product:     cfg.ModisProduct,
		daysBack:    cfg.ModisDaysBack,
		concurrency: concurrency,
		httpClient:  &http.Client{Timeout: cfg.LaadsTimeout},
		clock:       clockwork.NewRealClock(),
		logger:      logger,
		metrics:     metrics,
	}
}

// SetClock swaps the time source used for date enumeration and descriptor
// timestamps. Tests inject a fake clock; pass nil to reset to real time.
func (c *Client) SetClock(clk clockwork.Clock) {
	if clk == nil {
		c.clock = clockwork.NewRealClock()
		return
	}
	c.clock = clk
}

// EnumerateDates returns daysBack+1 (year, dayOfYear) pairs, most recent
// first, walking back whole days from the current UTC date. Day-of-year is
// the 1-based count from January 1, never calendar-month arithmetic.
func (c *Client) EnumerateDates(daysBack int) []domain.DateRef {
	now := c.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	dates := make([]domain.DateRef, 0, daysBack+1)
	for offset := 0; offset <= daysBack; offset++ {
		target := today.AddDate(0, 0, -offset)
		dates = append(dates, domain.DateRef{Year: target.Year(), DayOfYear: target.YearDay()})
	}
	return dates
}

// indexResponse mirrors the LAADS per-day index JSON.
type indexResponse struct {
	Content []indexEntry `json:"content"`
}

type indexEntry struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
}

// QueryIndex fetches one day's granule index. A 404 means no granules exist
// for that day and yields an empty list; any other non-2xx status is an
// error carrying the status and body.
func (c *Client) QueryIndex(ctx context.Context, year, dayOfYear int) ([]domain.Granule, error) {
	if err := c.ensureToken(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s/%d/%03d.json", c.baseURL, c.collection, c.product, year, dayOfYear)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create index request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IndexQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("laads index request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.IndexQueries.WithLabelValues("empty").Inc()
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.IndexQueries.WithLabelValues("error").Inc()
		return nil, &domain.RemoteError{Op: "laads index", Status: resp.StatusCode, Body: string(body)}
	}

	var index indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		c.metrics.IndexQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode index response: %w", err)
	}

	granules := make([]domain.Granule, 0, len(index.Content))
	for _, entry := range index.Content {
		if !hasRasterExtension(entry.Name) {
			continue
		}
		granules = append(granules, domain.Granule{
			Name:         entry.Name,
			Size:         entry.Size,
			LastModified: entry.LastModified,
			Year:         year,
			DayOfYear:    dayOfYear,
			Product:      c.product,
			Collection:   c.collection,
			URL:          c.granuleURL(year, dayOfYear, entry.Name),
		})
	}

	c.metrics.IndexQueries.WithLabelValues("success").Inc()
	return granules, nil
}

// ListRecentGranules enumerates the trailing date window and queries each
// day's index, concatenating results in date order, most recent first. Index
// queries run with a bounded concurrency limit (default 1, i.e. strictly
// sequential) as backpressure against the archive's unknown rate limits; the
// aggregate ordering is preserved regardless of the limit.
func (c *Client) ListRecentGranules(ctx context.Context, daysBack int) ([]domain.Granule, error) {
	if daysBack < 0 {
		daysBack = c.daysBack
	}
	if err := c.ensureToken(); err != nil {
		return nil, err
	}

	dates := c.EnumerateDates(daysBack)
	perDate := make([][]domain.Granule, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			granules, err := c.QueryIndex(gctx, date.Year, date.DayOfYear)
			if err != nil {
				return err
			}
			perDate[i] = granules
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Granule
	for _, granules := range perDate {
		all = append(all, granules...)
	}

	c.logger.Info("granule discovery complete",
		"product", c.product, "days_back", daysBack, "granules", len(all))
	return all, nil
}

// Descriptor synthesizes a granule descriptor from a caller-supplied name and
// date, for callers that already know which file they want. Size is unknown
// and reported as zero.
func (c *Client) Descriptor(name string, year, dayOfYear int) domain.Granule {
	return domain.Granule{
		Name:         name,
		LastModified: c.clock.Now().UTC().Format(time.RFC3339),
		Year:         year,
		DayOfYear:    dayOfYear,
		Product:      c.product,
		Collection:   c.collection,
		URL:          c.granuleURL(year, dayOfYear, name),
	}
}

// Download streams one granule to destinationDir and returns the local path.
// The destination directory is created if missing. A single failed attempt
// fails the call; retry policy belongs to the caller.
func (c *Client) Download(ctx context.Context, granule domain.Granule, destinationDir string) (string, error) {
	if err := c.ensureToken(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, granule.URL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GranuleDownloads.WithLabelValues("laads", "error").Inc()
		return "", fmt.Errorf("download %s: %w", granule.Name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.metrics.GranuleDownloads.WithLabelValues("laads", "error").Inc()
		return "", fmt.Errorf("download %s: %w", granule.Name, domain.ErrCredentialsRejected)
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.GranuleDownloads.WithLabelValues("laads", "error").Inc()
		return "", fmt.Errorf("download %s: %w", granule.Name, domain.ErrRemoteNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GranuleDownloads.WithLabelValues("laads", "error").Inc()
		return "", &domain.RemoteError{Op: "laads download", Status: resp.StatusCode, Body: string(body)}
	}

	path := filepath.Join(destinationDir, granule.Name)
	written, err := streamToFile(resp.Body, path)
	if err != nil {
		c.metrics.GranuleDownloads.WithLabelValues("laads", "error").Inc()
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	c.metrics.GranuleDownloads.WithLabelValues("laads", "success").Inc()
	c.metrics.DownloadedBytes.Add(float64(written))
	c.metrics.DownloadDuration.Observe(c.clock.Since(start).Seconds())
	c.logger.Info("granule downloaded", "name", granule.Name, "bytes", written, "path", path)
	return path, nil
}

func (c *Client) ensureToken() error {
	if c.token == "" {
		return fmt.Errorf("LAADS_TOKEN is not set: %w", domain.ErrCredentialsMissing)
	}
	return nil
}

func (c *Client) granuleURL(year, dayOfYear int, name string) string {
	return fmt.Sprintf("%s/%s/%s/%d/%03d/%s", c.baseURL, c.collection, c.product, year, dayOfYear, name)
}

func hasRasterExtension(name string) bool {
	for _, ext := range rasterExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// streamToFile copies the response body to disk without buffering the whole
// payload. A partially written file is removed on failure.
func streamToFile(body io.Reader, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(f, body)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}
	return written, nil
}
