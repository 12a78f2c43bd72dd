package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geoscope"

// Metrics holds the Prometheus counters, histograms, and gauges for the client.
type Metrics struct {
	// Search metrics.
	Searches             *prometheus.CounterVec // labels: category, outcome={success,superseded,api_error,format_error,transport_error}
	SearchDuration       prometheus.Histogram
	RecordsNormalized    *prometheus.CounterVec // labels: category
	RecordsWithoutCoords *prometheus.CounterVec // labels: category
	ResultSetSize        prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	SupersededLookups  prometheus.Counter

	// Export metrics.
	ExportedRecords prometheus.Counter
	ExportErrors    prometheus.Counter
}

// NewMetrics creates and registers all client metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Searches,
		m.SearchDuration,
		m.RecordsNormalized,
		m.RecordsWithoutCoords,
		m.ResultSetSize,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.SupersededLookups,
		m.ExportedRecords,
		m.ExportErrors,
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
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Dataset searches by category and outcome.",
		}, []string{"category", "outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of a search from query build to normalized result set.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Raw records normalized into display records.",
		}, []string{"category"}),
		RecordsWithoutCoords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_without_coordinates_total",
			Help:      "Display records excluded from the map for lack of a valid coordinate pair.",
		}, []string{"category"}),
		ResultSetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_set_size",
			Help:      "Number of records in the currently displayed result set.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse-geocode API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Session geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Reverse-geocode API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SupersededLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_lookups_total",
			Help:      "Geocode lookups whose result arrived after their search was superseded.",
		}),
		ExportedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_records_total",
			Help:      "Display records published to the export topic.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_errors_total",
			Help:      "Failed result-set exports.",
		}),
	}
}
