// Package metrics exposes Prometheus counters for the prospector's search
// and enrichment flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts prospect searches by outcome ("ok", "error",
	// "blocked").
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_searches_total",
			Help: "Total number of prospect searches",
		},
		[]string{"outcome"},
	)

	// EnrichmentOutcomes counts per-candidate enrichment results
	// ("enriched", "skipped", "rejected", "error").
	EnrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_enrichment_outcomes_total",
			Help: "Per-candidate enrichment outcomes",
		},
		[]string{"outcome"},
	)

	// ProviderCallDuration tracks outbound provider call latency.
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "prospector_provider_call_duration_seconds",
			Help: "Duration of outbound provider calls in seconds",
		},
		[]string{"provider"},
	)

	// WebhookEvents counts received payment webhook events by type and
	// result ("applied", "ignored", "incomplete", "no_user",
	// "bad_signature", "error").
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_webhook_events_total",
			Help: "Payment webhook events received",
		},
		[]string{"type", "result"},
	)
)
