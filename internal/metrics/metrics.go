// Package metrics exposes the Prometheus gauges and histograms the
// Orchestrator and Translation Cache report through, plus the /metrics
// scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHitRate reports the Translation Cache's cumulative hit rate.
	CacheHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lingua_relay_cache_hit_rate",
		Help: "Cumulative translation cache hit rate (hits / (hits+misses)).",
	})

	// TranslationLatency buckets per-target translation call duration.
	TranslationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lingua_relay_translation_latency_seconds",
		Help:    "Latency of a single target-language translation call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"target_language", "outcome"})

	// OrchestratorFailures counts per-target translation failures.
	OrchestratorFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lingua_relay_orchestrator_failures_total",
		Help: "Count of per-target translation failures seen by the orchestrator.",
	}, []string{"target_language"})

	// MessagesTranslated counts messages that settled to translated/failed.
	MessagesTranslated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lingua_relay_messages_settled_total",
		Help: "Count of messages that settled to a terminal translation status.",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(CacheHitRate, TranslationLatency, OrchestratorFailures, MessagesTranslated)
}

// Handler returns the HTTP handler Fiber mounts at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
