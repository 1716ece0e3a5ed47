package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds configuration for the metrics listener.
type Config struct {
	// Addr is the listen address for the Prometheus endpoint.
	// Empty disables metrics entirely.
	Addr string `mapstructure:"addr" default:""`
}

// Metrics bundles the counters tracked by the import pipeline.
type Metrics struct {
	registry *prometheus.Registry

	EventsFetched *prometheus.CounterVec
	ParseFailures *prometheus.CounterVec
	Imported      *prometheus.CounterVec
	Duplicates    *prometheus.CounterVec
	ImportErrors  *prometheus.CounterVec
}

// New creates a Metrics bundle with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "show_events_fetched_total",
			Help: "Raw events fetched from external sources.",
		}, []string{"source"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "show_parse_failures_total",
			Help: "Single-event parse failures, isolated per event.",
		}, []string{"source"}),
		Imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "show_records_imported_total",
			Help: "Records imported, by target and entity.",
		}, []string{"target", "entity"}),
		Duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "show_records_duplicate_total",
			Help: "Records classified as duplicates, by target and entity.",
		}, []string{"target", "entity"}),
		ImportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "show_import_errors_total",
			Help: "Per-record import errors, by target and entity.",
		}, []string{"target", "entity"}),
	}

	m.registry.MustRegister(m.EventsFetched, m.ParseFailures, m.Imported, m.Duplicates, m.ImportErrors)
	return m
}

// Serve starts a blocking HTTP listener exposing /metrics.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
