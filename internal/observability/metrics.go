package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// IPMA open-data call rate per endpoint. Watch for: error vs success ratio,
	// and overall volume — the whole point of the cache is keeping this low.
	IPMACallsTotal *prometheus.CounterVec

	// Upstream latency per endpoint. Watch for: p95 > 2s (upstream degradation).
	IPMACallDuration *prometheus.HistogramVec

	// Cache hits per cache instance. Hit rate = hits/(hits+misses).
	CacheHitsTotal *prometheus.CounterVec

	// Cache misses per cache instance.
	CacheMissesTotal *prometheus.CounterVec

	// Locality resolutions per tier (exact, substring, miss). Watch for: a high
	// substring share means callers spell names the provider does not.
	LocalityResolutionsTotal *prometheus.CounterVec

	// Concurrent misses on the same key observed while an upstream fetch was in
	// progress. There is no single-flight, so each one is a duplicate fetch.
	CacheStampedeDetectedTotal prometheus.Counter

	// Cache warming runs and duration.
	CacheWarmingTotal           prometheus.Counter
	CacheWarmingDurationSeconds prometheus.Histogram

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	IPMACallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipmaCallsTotal",
			Help: "Total number of IPMA open-data API calls",
		},
		[]string{"endpoint", "status"},
	)
	IPMACallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ipmaCallDurationSeconds",
			Help:    "IPMA open-data API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"endpoint"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of cache hits per cache instance",
		},
		[]string{"cacheType"},
	)
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheMissesTotal",
			Help: "Total number of cache misses per cache instance",
		},
		[]string{"cacheType"},
	)
	LocalityResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localityResolutionsTotal",
			Help: "Locality name resolutions by matching tier",
		},
		[]string{"tier"},
	)
	CacheStampedeDetectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheStampedeDetectedTotal",
			Help: "Concurrent misses for the same key; each is a duplicate upstream fetch",
		},
	)
	CacheWarmingTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheWarmingTotal",
			Help: "Total number of cache warming runs",
		},
	)
	CacheWarmingDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cacheWarmingDurationSeconds",
			Help:    "Cache warming duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		IPMACallsTotal, IPMACallDuration,
		CacheHitsTotal, CacheMissesTotal,
		LocalityResolutionsTotal, CacheStampedeDetectedTotal,
		CacheWarmingTotal, CacheWarmingDurationSeconds,
		RateLimitDeniedTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
