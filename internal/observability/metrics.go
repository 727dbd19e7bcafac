package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// environmental engine.
type Metrics struct {
	SummariesGenerated prometheus.Counter
	SummaryCache       *prometheus.CounterVec // labels: result={hit,miss}
	SimulationsRun     *prometheus.CounterVec // labels: outcome={success,error}

	// Granule discovery and download metrics.
	IndexQueries     *prometheus.CounterVec // labels: outcome={success,empty,error}
	GranuleDownloads *prometheus.CounterVec // labels: source={laads,earthdata}, outcome={success,error}
	DownloadedBytes  prometheus.Counter
	DownloadDuration prometheus.Histogram

	// Tile pipeline metrics.
	PipelineStageDuration *prometheus.HistogramVec // labels: stage
	PipelineStageFailures *prometheus.CounterVec   // labels: stage
	LayersPublished       prometheus.Counter
	IngestRunning         prometheus.Gauge

	// Event publishing metrics.
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SummariesGenerated,
		m.SummaryCache,
		m.SimulationsRun,
		m.IndexQueries,
		m.GranuleDownloads,
		m.DownloadedBytes,
		m.DownloadDuration,
		m.PipelineStageDuration,
		m.PipelineStageFailures,
		m.LayersPublished,
		m.IngestRunning,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SummariesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "summaries_generated_total",
			Help:      "Total environmental summaries synthesized.",
		}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "summary_cache_total",
			Help:      "Summary cache lookups by result.",
		}, []string{"result"}),
		SimulationsRun: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "simulations_run_total",
			Help:      "Intervention simulations by outcome.",
		}, []string{"outcome"}),
		IndexQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "index_queries_total",
			Help:      "LAADS per-day index queries by outcome.",
		}, []string{"outcome"}),
		GranuleDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "granule_downloads_total",
			Help:      "Remote asset downloads by source and outcome.",
		}, []string{"source", "outcome"}),
		DownloadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "downloaded_bytes_total",
			Help:      "Total bytes streamed to local storage.",
		}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "enviro_engine",
			Name:      "download_duration_seconds",
			Help:      "Duration of a single asset download.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		PipelineStageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "enviro_engine",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each tile pipeline stage.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		PipelineStageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "pipeline_stage_failures_total",
			Help:      "Tile pipeline stage failures by stage.",
		}, []string{"stage"}),
		LayersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "layers_published_total",
			Help:      "Tile layers atomically published under the tile root.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "enviro_engine",
			Name:      "ingest_running",
			Help:      "1 while an ingest job is active, 0 otherwise.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_engine",
			Name:      "events_published_total",
			Help:      "Layer-published events emitted to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
