package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching Prometheus metrics.
var (
	MatchingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refind",
			Name:      "matching_runs_total",
			Help:      "Total matching runs",
		},
		[]string{"kind", "status"}, // kind of the triggering item; "ok" / "error"
	)

	MatchesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "refind",
			Name:      "matches_recorded_total",
			Help:      "Total matches above threshold",
		},
	)

	MatchPersistFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refind",
			Name:      "match_persist_failures_total",
			Help:      "Failed match or notification writes",
		},
		[]string{"record"}, // "match" / "notification"
	)
)

var matchingMetricsRegistered bool

// RegisterMatchingMetrics registers matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchingMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchingRunsTotal)
	prometheus.MustRegister(MatchesRecordedTotal)
	prometheus.MustRegister(MatchPersistFailuresTotal)
	matchingMetricsRegistered = true
}
