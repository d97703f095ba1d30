package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total number of relay requests by endpoint and response status",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "relay_request_duration_seconds",
			Help: "Duration of relay request handling in seconds",
		},
		[]string{"endpoint"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_provider_calls_total",
			Help: "Total number of outbound provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	RateLimitKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_rate_limit_keys",
			Help: "Number of client keys held by the in-memory rate limiter",
		},
	)
)
