package executor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// platformRequests counts single attempts by outcome (2xx, 4xx, 5xx, error).
	platformRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbridge_platform_requests_total",
			Help: "Total number of outbound platform requests by outcome",
		},
		[]string{"platform", "operation", "outcome"},
	)

	platformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialbridge_platform_request_duration_seconds",
			Help:    "Latency of single outbound platform requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform", "operation"},
	)

	platformRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbridge_platform_retries_total",
			Help: "Total number of retried platform calls",
		},
		[]string{"platform", "reason"},
	)

	// rateLimitWait accumulates time spent sleeping on retry-after signals.
	rateLimitWait = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialbridge_platform_rate_limit_wait_seconds_total",
			Help: "Total seconds spent waiting on platform rate limits",
		},
		[]string{"platform"},
	)
)

func init() {
	prometheus.MustRegister(platformRequests)
	prometheus.MustRegister(platformRequestDuration)
	prometheus.MustRegister(platformRetries)
	prometheus.MustRegister(rateLimitWait)
}

func outcomeLabel(status int, err error) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case err != nil:
		return "error"
	default:
		return "other"
	}
}
