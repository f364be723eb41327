package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the flood
// database pipeline.
type Metrics struct {
	WindowsFetched    prometheus.Counter
	EventsFetched     prometheus.Counter
	EventsNormalized  prometheus.Counter
	MalformedRecords  prometheus.Counter
	DuplicatesDropped prometheus.Counter
	TruncatedWindows  prometheus.Counter

	FetchDuration    prometheus.Histogram
	WindowEventCount prometheus.Histogram

	// Validation metrics.
	ValidationFailures *prometheus.CounterVec // label: rule
	EventsUnderReview  prometheus.Gauge

	// Updater metrics.
	NewEvents      prometheus.Counter
	ChangedEvents  prometheus.Counter
	UpdaterRunning prometheus.Gauge
	LastUpdateUnix prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.WindowsFetched,
		m.EventsFetched,
		m.EventsNormalized,
		m.MalformedRecords,
		m.DuplicatesDropped,
		m.TruncatedWindows,
		m.FetchDuration,
		m.WindowEventCount,
		m.ValidationFailures,
		m.EventsUnderReview,
		m.NewEvents,
		m.ChangedEvents,
		m.UpdaterRunning,
		m.LastUpdateUnix,
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
		WindowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "windows_fetched_total",
			Help:      "Total monthly windows queried against the feed.",
		}),
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "events_fetched_total",
			Help:      "Total raw features returned by the feed.",
		}),
		EventsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "events_normalized_total",
			Help:      "Total features normalized into canonical events.",
		}),
		MalformedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "malformed_records_total",
			Help:      "Total raw features skipped as unusable.",
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "duplicates_dropped_total",
			Help:      "Total events dropped by first-seen-wins deduplication.",
		}),
		TruncatedWindows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "truncated_windows_total",
			Help:      "Windows whose result count hit the page-size threshold.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gdacs_etl",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one window fetch including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		WindowEventCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gdacs_etl",
			Name:      "window_event_count",
			Help:      "Number of features returned per window.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 75, 100},
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "validation_failures_total",
			Help:      "Rule violations found during validation passes.",
		}, []string{"rule"}),
		EventsUnderReview: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gdacs_etl",
			Name:      "events_under_review",
			Help:      "Events flagged for manual review in the last pass.",
		}),
		NewEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "new_events_total",
			Help:      "New events detected by the updater.",
		}),
		ChangedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdacs_etl",
			Name:      "changed_events_total",
			Help:      "Existing events whose tracked fields changed.",
		}),
		UpdaterRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gdacs_etl",
			Name:      "updater_running",
			Help:      "1 while an update cycle is in progress.",
		}),
		LastUpdateUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gdacs_etl",
			Name:      "last_update_timestamp_seconds",
			Help:      "Unix time of the last completed update cycle.",
		}),
	}
}
