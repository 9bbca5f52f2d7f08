package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sync_provider_requests_total", Help: "Provider API calls by endpoint and outcome"},
		[]string{"endpoint", "outcome"},
	)
	StepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sync_step_failures_total", Help: "Sync steps that returned zero counts after a failure"},
		[]string{"step"},
	)
	RowsUpserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sync_rows_upserted_total", Help: "Rows upserted per entity"},
		[]string{"entity"},
	)
	FixturesArchived = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_fixtures_archived_total", Help: "Finished fixtures moved into the archive tables"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_run_duration_seconds",
			Help:    "Wall time of one full synchronization run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

func Register() {
	prometheus.MustRegister(ProviderRequests, StepFailures, RowsUpserted, FixturesArchived, RunDuration)
}
