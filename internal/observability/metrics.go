package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	SourcesProcessed   prometheus.Counter
	SourceFailures     *prometheus.CounterVec // label: stage={fetch,decode,accumulate}
	SamplesAccumulated prometheus.Counter
	RowsWritten        prometheus.Counter
	PipelineRunning    prometheus.Gauge

	FetchDuration  prometheus.Histogram
	DecodeDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourcesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "merra2_etl",
			Name:      "sources_processed_total",
			Help:      "Total archive sources fetched, decoded, and accumulated.",
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merra2_etl",
			Name:      "source_failures_total",
			Help:      "Skipped sources by failing stage.",
		}, []string{"stage"}),
		SamplesAccumulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "merra2_etl",
			Name:      "samples_accumulated_total",
			Help:      "Total time samples appended to the accumulated series.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "merra2_etl",
			Name:      "rows_written_total",
			Help:      "Total rows persisted to the output table.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "merra2_etl",
			Name:      "pipeline_running",
			Help:      "1 while the source loop is active, 0 otherwise.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "merra2_etl",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one archive retrieval.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "merra2_etl",
			Name:      "decode_duration_seconds",
			Help:      "Duration of one NetCDF decode.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.SourcesProcessed,
		m.SourceFailures,
		m.SamplesAccumulated,
		m.RowsWritten,
		m.PipelineRunning,
		m.FetchDuration,
		m.DecodeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourcesProcessed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "merra2_etl", Name: "sources_processed_total"}),
		SourceFailures:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "merra2_etl", Name: "source_failures_total"}, []string{"stage"}),
		SamplesAccumulated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "merra2_etl", Name: "samples_accumulated_total"}),
		RowsWritten:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "merra2_etl", Name: "rows_written_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "merra2_etl", Name: "pipeline_running"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "merra2_etl", Name: "fetch_duration_seconds"}),
		DecodeDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "merra2_etl", Name: "decode_duration_seconds"}),
	}
}
