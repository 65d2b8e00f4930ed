package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the OBIS
// export pipeline.
type Metrics struct {
	EventsCreated      prometheus.Counter
	OccurrencesCreated prometheus.Counter

	// RecordsSkipped counts source records that produced no output,
	// labeled by record kind (set, catch) and skip reason.
	RecordsSkipped *prometheus.CounterVec

	RunDuration   prometheus.Histogram
	ExportRunning prometheus.Gauge
}

// NewMetrics creates and registers all export metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "andes_obis",
			Name:      "events_created_total",
			Help:      "Total dwc:Event records derived and persisted.",
		}),
		OccurrencesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "andes_obis",
			Name:      "occurrences_created_total",
			Help:      "Total dwc:Occurrence records derived and persisted.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "andes_obis",
			Name:      "records_skipped_total",
			Help:      "Source records skipped without output, by kind and reason.",
		}, []string{"kind", "reason"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "andes_obis",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete export run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		ExportRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "andes_obis",
			Name:      "export_running",
			Help:      "1 while an export run is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.EventsCreated,
		m.OccurrencesCreated,
		m.RecordsSkipped,
		m.RunDuration,
		m.ExportRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsCreated:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "andes_obis", Name: "events_created_total"}),
		OccurrencesCreated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "andes_obis", Name: "occurrences_created_total"}),
		RecordsSkipped:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "andes_obis", Name: "records_skipped_total"}, []string{"kind", "reason"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "andes_obis", Name: "run_duration_seconds"}),
		ExportRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "andes_obis", Name: "export_running"}),
	}
}
