package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeNoProvider = "no_provider"
	OutcomeAllFailed  = "all_failed"
	OutcomeInvalid    = "invalid"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyglot_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// ProviderAttempts counts individual provider calls by outcome.
	ProviderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyglot_provider_attempts_total",
		Help: "Translation attempts per provider, by outcome.",
	}, []string{"provider", "outcome"})

	// ProviderAttemptDuration tracks provider call latency.
	ProviderAttemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polyglot_provider_attempt_duration_seconds",
		Help:    "Time spent in one provider call.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider"})

	// Translations counts engine-level results.
	Translations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyglot_translations_total",
		Help: "Translation requests handled by the engine, by outcome.",
	}, []string{"outcome"})

	// ProviderAvailable reports whether a provider passed the startup availability filter.
	ProviderAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "polyglot_provider_available",
		Help: "Whether a translation provider is configured (1) or not (0).",
	}, []string{"provider"})
)
