package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tourroute_requests_total",
		Help: "Total HTTP requests by path and status",
	}, []string{"path", "status"})
	OptimizeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tourroute_optimize_duration_ms",
		Help:    "Optimization run duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	OptimizeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourroute_optimize_failures_total",
		Help: "Total failed optimization runs",
	})
	NoSuggestionRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourroute_no_suggestion_runs_total",
		Help: "Total optimization runs that produced no fill suggestions despite open gaps",
	})
	ApplyConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourroute_apply_conflicts_total",
		Help: "Total apply calls rejected by a tour version conflict",
	})
	ResultCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourroute_result_cache_hits_total",
		Help: "Total optimization result cache hits",
	})
	ResultCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourroute_result_cache_misses_total",
		Help: "Total optimization result cache misses",
	})
)

// Register installs all collectors on the default registry.
func Register() {
	prometheus.MustRegister(
		RequestsTotal,
		OptimizeDurationMs,
		OptimizeFailuresTotal,
		NoSuggestionRunsTotal,
		ApplyConflictsTotal,
		ResultCacheHitsTotal,
		ResultCacheMissesTotal,
	)
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler { return promhttp.Handler() }
