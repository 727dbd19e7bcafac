package earthdata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitx/enviro-engine/internal/domain"
	"github.com/orbitx/enviro-engine/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		username:   "user",
		password:   "secret",
		baseURL:    baseURL,
		dataset:    "SRTMGL1.003",
		release:    "2015.02.25",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestDescribeTile(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{lat: 23.81, lon: 90.41, want: "N23E090"},
		{lat: -1.29, lon: 36.82, want: "S01E036"},
		{lat: 40.71, lon: -74.01, want: "N40W074"},
		{lat: -33.87, lon: -151.21, want: "S33W151"},
		{lat: 0.0, lon: 0.0, want: "N00E000"},
	}

	c := testClient("https://e4ftl01.example/MEASURES")
	for _, tt := range tests {
		tile := c.DescribeTile(tt.lat, tt.lon)
		assert.Equal(t, tt.want, tile.ID, "(%f, %f)", tt.lat, tt.lon)
	}
}

func TestDescribeTile_URL(t *testing.T) {
	c := testClient("https://e4ftl01.example/MEASURES")
	tile := c.DescribeTile(23.81, 90.41)

	assert.Equal(t, "SRTMGL1.003", tile.Dataset)
	assert.Equal(t, "2015.02.25", tile.Release)
	assert.Equal(t, "https://e4ftl01.example/MEASURES/SRTMGL1.003/2015.02.25/N23E090.SRTMGL1.hgt.zip", tile.URL)
}

func TestDownload_FollowsRedirect(t *testing.T) {
	const payload = "elevation-bytes"

	// Signed storage endpoint the archive redirects to.
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, payload)
	}))
	defer storage.Close()

	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/SRTMGL1.003/2015.02.25/N23E090.SRTMGL1.hgt.zip", r.URL.Path)
		http.Redirect(w, r, storage.URL+"/signed", http.StatusFound)
	}))
	defer archive.Close()

	c := testClient(archive.URL)
	dir := filepath.Join(t.TempDir(), "srtm")

	path, err := c.Download(context.Background(), 23.81, 90.41, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "N23E090.SRTMGL1.hgt.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestDownload_MissingCredentials(t *testing.T) {
	c := testClient("http://unused")
	c.password = ""

	_, err := c.Download(context.Background(), 23.81, 90.41, t.TempDir())
	require.ErrorIs(t, err, domain.ErrCredentialsMissing)
}

func TestDownload_CredentialsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Download(context.Background(), 23.81, 90.41, t.TempDir())
	require.ErrorIs(t, err, domain.ErrCredentialsRejected)
}

func TestDownload_TileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Download(context.Background(), 23.81, 90.41, t.TempDir())
	require.ErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestDownload_TransferError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance window"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Download(context.Background(), 23.81, 90.41, t.TempDir())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
	assert.Equal(t, "maintenance window", remoteErr.Body)
}
