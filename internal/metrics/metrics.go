package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dajeong_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dajeong_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dajeong_translations_total",
			Help: "Total number of completed translations by path.",
		},
		[]string{"path"}, // "ai" or "fallback"
	)

	AdmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dajeong_quota_admissions_total",
			Help: "Total number of AI rewrites counted against the daily quota.",
		},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dajeong_rate_limited_total",
			Help: "Total number of requests denied by the rate limiter.",
		},
	)

	GeminiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dajeong_gemini_calls_total",
			Help: "Total number of Gemini API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TranslationsTotal,
		AdmissionsTotal,
		RateLimitedTotal,
		GeminiCallsTotal,
	)
}
