package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rota",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Planning metrics
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Total planning runs by outcome",
	}, []string{"outcome"})

	PartitionIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rota",
		Subsystem: "planner",
		Name:      "partition_iterations",
		Help:      "Lloyd iterations needed per partition run",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 300},
	})

	ConvergenceLimitTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "planner",
		Name:      "convergence_limit_total",
		Help:      "Partition runs that hit the iteration cap before stabilizing",
	})

	GroupsRouted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "planner",
		Name:      "groups_routed_total",
		Help:      "Total groups sequenced by the nearest-neighbor router",
	})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rota",
		Subsystem: "ops",
		Name:      "duration_seconds",
		Help:      "Duration of timed internal operations",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"op", "result"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rota",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})
)

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
