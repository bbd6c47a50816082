package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "casechart"

// Metrics holds the Prometheus instruments for one pipeline run. The job has
// no HTTP endpoint; WriteTextfile hands the values to a node-exporter
// textfile collector instead.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts   prometheus.Counter
	RowsFetched     prometheus.Gauge
	RowsNormalized  prometheus.Gauge
	TotalDecreases  prometheus.Gauge
	ExportFailures  *prometheus.CounterVec   // labels: format={csv,parquet,xlsx}
	StageDuration   *prometheus.HistogramVec // labels: stage={fetch,normalize,enrich,export,render}
	LastSuccess     prometheus.Gauge
	SeriesLastDate  prometheus.Gauge
	MaxFortnightAvg prometheus.Gauge
}

// NewMetrics creates the run metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP attempts made against the source page.",
		}),
		RowsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_fetched",
			Help:      "Raw table rows extracted from the source page.",
		}),
		RowsNormalized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_normalized",
			Help:      "Records in the normalized series.",
		}),
		TotalDecreases: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_decreases",
			Help:      "Days whose cumulative count fell below the previous day's.",
		}),
		ExportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_failures_total",
			Help:      "Best-effort export failures by format.",
		}, []string{"format"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that produced a chart.",
		}),
		SeriesLastDate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_last_date_timestamp_seconds",
			Help:      "Unix time of the newest day in the series.",
		}),
		MaxFortnightAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_fortnight_average",
			Help:      "Largest fortnight average in the series.",
		}),
	}

	m.registry.MustRegister(
		m.FetchAttempts,
		m.RowsFetched,
		m.RowsNormalized,
		m.TotalDecreases,
		m.ExportFailures,
		m.StageDuration,
		m.LastSuccess,
		m.SeriesLastDate,
		m.MaxFortnightAvg,
	)

	return m
}

// NewMetricsForTesting returns fresh metrics; each call owns its registry so
// tests never collide.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// Gatherer exposes the registry, e.g. for testutil assertions.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
