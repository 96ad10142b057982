// Package metrics exposes Prometheus collectors for the ingestion service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ingestDocumentsTotal *prometheus.CounterVec
	ingestFetchesTotal   *prometheus.CounterVec
	ingestRunsTotal      *prometheus.CounterVec
	ingestRunSeconds     prometheus.Histogram
	ingestLastRunNew     prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		ingestDocumentsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_documents_total",
				Help: "Documents processed per source, labeled by outcome (new, duplicate, rejected, failed).",
			},
			[]string{"source", "outcome"},
		)

		ingestFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_fetches_total",
				Help: "Source fetches, labeled by classified status.",
			},
			[]string{"source", "status"},
		)

		ingestRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_runs_total",
				Help: "Ingestion runs, labeled by scheduler tier.",
			},
			[]string{"tier"},
		)

		ingestRunSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingest_run_duration_seconds",
				Help:    "Histogram of full ingestion run durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		)

		ingestLastRunNew = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ingest_last_run_new_documents",
				Help: "Number of new documents persisted by the most recent run.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveDocument increments the per-source document counter.
func ObserveDocument(source, outcome string) {
	ingestDocumentsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveFetch increments the per-source fetch counter.
func ObserveFetch(source, status string) {
	ingestFetchesTotal.WithLabelValues(source, status).Inc()
}

// ObserveRun records one completed run.
func ObserveRun(tier string, duration time.Duration, newDocuments int) {
	ingestRunsTotal.WithLabelValues(tier).Inc()
	ingestRunSeconds.Observe(duration.Seconds())
	ingestLastRunNew.Set(float64(newDocuments))
}
