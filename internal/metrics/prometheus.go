package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// Feed call metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betodds_feed_calls_total",
			Help: "Total number of provider feed calls",
		},
		[]string{"feed", "status"},
	)

	FeedCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "betodds_feed_call_duration_seconds",
			Help:    "Duration of provider feed calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	// Stage metrics
	StageRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betodds_stage_records_total",
			Help: "Records handled per ingestion stage, by disposition",
		},
		[]string{"stage", "disposition"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "betodds_stage_duration_seconds",
			Help:    "Duration of ingestion stages in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betodds_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"mode"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "betodds_last_successful_run_timestamp",
			Help: "Timestamp of the last completed pipeline run",
		},
	)

	// Ledger metrics
	SnapshotsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betodds_snapshots_recorded_total",
			Help: "Total number of odds snapshots appended",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betodds_cache_hits_total",
			Help: "Total number of odds payload cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betodds_cache_misses_total",
			Help: "Total number of odds payload cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betodds_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "betodds_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordFeedCall records one provider feed call
func RecordFeedCall(feed, status string, duration float64) {
	FeedCallsTotal.WithLabelValues(feed, status).Inc()
	FeedCallDuration.WithLabelValues(feed).Observe(duration)
}

// RecordStage records the outcome counts of one ingestion stage
func RecordStage(stage string, processed, skipped, failed int, duration float64) {
	StageRecordsTotal.WithLabelValues(stage, "processed").Add(float64(processed))
	StageRecordsTotal.WithLabelValues(stage, "skipped").Add(float64(skipped))
	StageRecordsTotal.WithLabelValues(stage, "failed").Add(float64(failed))
	StageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordRun records a completed pipeline run
func RecordRun(mode string) {
	RunsTotal.WithLabelValues(mode).Inc()
	LastSuccessfulRun.SetToCurrentTime()
}

// RecordSnapshot records one appended odds snapshot
func RecordSnapshot() {
	SnapshotsRecorded.Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
