package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dastarkhwan_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dastarkhwan_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	calculationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dastarkhwan_calculation_duration_seconds",
			Help:    "Portioning engine run latency by operation.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	calculationCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dastarkhwan_calculation_cache_total",
			Help: "Calculation cache lookups by outcome (hit or miss).",
		},
		[]string{"outcome"},
	)
)

// InitPrometheusMonitoring registers all collectors with the default
// registry. Call once at startup.
func InitPrometheusMonitoring() error {
	for _, collector := range []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		calculationDuration,
		calculationCacheHits,
	} {
		if err := prometheus.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func ObserveCalculation(operation string, elapsed time.Duration) {
	calculationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	calculationCacheHits.WithLabelValues(outcome).Inc()
}
