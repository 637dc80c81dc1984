package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_http_requests_total",
			Help: "Total number of HTTP requests handled, by path and status",
		},
		[]string{"path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "giftfinder_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"path"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_searches_total",
			Help: "Total number of search requests processed, by outcome",
		},
		[]string{"outcome"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "giftfinder_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "giftfinder_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	PriceLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftfinder_price_lookup_failures_total",
			Help: "Total number of failed retailer price lookups",
		},
		[]string{"retailer"},
	)
)
