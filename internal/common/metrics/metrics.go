// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_intent_resolutions_total",
			Help: "Total number of utterances resolved, by result source",
		},
		[]string{"source", "intent"},
	)

	ModelFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_model_fallbacks_total",
			Help: "Total number of times the primary classifier was bypassed",
		},
		[]string{"reason"},
	)

	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "voice_resolution_duration_seconds",
			Help: "Duration of intent resolution in seconds",
		},
		[]string{"source"},
	)

	KnowledgeQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_knowledge_queries_total",
			Help: "Total number of knowledge lookups, by retrieval path and outcome",
		},
		[]string{"path", "outcome"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_sessions_active",
			Help: "Number of live dialogue sessions",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_sessions_expired_total",
			Help: "Total number of dialogue sessions evicted after TTL expiry",
		},
	)
)
