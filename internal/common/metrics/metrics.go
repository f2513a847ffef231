// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type", "status"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// UpstreamFallbacks counts requests served from fallback data, by source and reason.
	UpstreamFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_upstream_fallbacks_total",
			Help: "Context lookups answered with synthetic, stale or static data",
		},
		[]string{"source", "kind"},
	)

	TrendCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_trend_cache_lookups_total",
			Help: "Trend cache lookups by result (hit, miss, stale, corrupt)",
		},
		[]string{"result"},
	)

	TrendRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_trend_refreshes_total",
			Help: "Upstream trend refreshes, shared marks callers that joined an in-flight refresh",
		},
		[]string{"shared"},
	)

	NarrativeVariants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_narrative_variants_total",
			Help: "Generated narrative variants by outcome",
		},
		[]string{"store_type", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_generation_duration_seconds",
			Help:    "Latency of a single generation backend call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
)
