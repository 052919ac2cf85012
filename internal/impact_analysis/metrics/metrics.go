package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisTotal counts analyzeImpact calls by analysis type and outcome
	// (ok, not_found, invalid, error).
	AnalysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_analysis_requests_total",
		Help: "Impact analyses by analysis type and outcome",
	}, []string{"analysis_type", "outcome"})

	// AnalysisDuration tracks end-to-end latency, cache hits included.
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "impact_analysis_duration_seconds",
		Help:    "Impact analysis duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"analysis_type"})

	// CacheTotal counts cache lookups by result (hit, miss, error).
	CacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_analysis_cache_total",
		Help: "Impact analysis cache lookups by result",
	}, []string{"result"})

	AffectedServices = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "impact_analysis_affected_services",
		Help:    "Number of affected services per computed analysis",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
	})

	// Degradations counts non-fatal fallbacks (roster, cache_read, cache_write, cycles).
	Degradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_analysis_degradations_total",
		Help: "Non-fatal degradations during impact analysis",
	}, []string{"kind"})

	CacheReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "impact_analysis_cache_reclaimed_total",
		Help: "Expired cache entries removed by the sweeper",
	})
)
