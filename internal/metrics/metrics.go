// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_readings_total",
			Help: "Personalized readings served, by reading kind",
		},
		[]string{"kind"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_generation_failures_total",
			Help: "Text generation calls that failed, by caller",
		},
		[]string{"source"}, // "reading", "raw", "creator"
	)

	PostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_posts_total",
			Help: "Publish attempts by platform and result",
		},
		[]string{"platform", "result"},
	)

	PollAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_media_poll_attempts_total",
			Help: "Container status polls issued to the Graph API",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oracle_queue_depth",
			Help: "Items waiting in the content queue",
		},
	)

	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_scheduler_runs_total",
			Help: "Scheduled job executions by job and result",
		},
		[]string{"job", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oracle_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordPost counts one publish attempt.
func RecordPost(platform string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	PostsTotal.WithLabelValues(platform, result).Inc()
}

// RecordSchedulerRun counts one scheduled job execution.
func RecordSchedulerRun(job string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SchedulerRuns.WithLabelValues(job, result).Inc()
}

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
