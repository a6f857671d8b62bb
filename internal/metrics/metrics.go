// Package metrics provides Prometheus metrics for the dashboard API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aegis"

var (
	// HTTPRequestsTotal counts requests by route, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// AuthorizationDecisions counts therapist checks by outcome.
	AuthorizationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Therapist authorization checks by outcome (granted, denied, error)",
		},
		[]string{"outcome"},
	)

	// SessionCacheLookups counts validation cache hits and misses.
	SessionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_cache_lookups_total",
			Help:      "Session validation cache lookups by result",
		},
		[]string{"result"},
	)

	// QuarantinedSummaries counts stored summaries rejected at decode time.
	QuarantinedSummaries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quarantined_summaries_total",
			Help:      "Summaries rejected because their stored shape was invalid",
		},
	)

	// GroupingSize observes how many day groups and sessions a grouping produced.
	GroupingSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grouping_size",
			Help:      "Distribution of day groups and sessions per grouping",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"kind"},
	)

	// SummariesPurged counts summaries removed through the admin endpoint.
	SummariesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_purged_total",
			Help:      "Summaries removed by bulk delete",
		},
	)
)

// RecordAuthorization records one therapist authorization decision.
func RecordAuthorization(outcome string) {
	AuthorizationDecisions.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a session cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SessionCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	SessionCacheLookups.WithLabelValues("miss").Inc()
}

// RecordGrouping records the shape of a grouping result.
func RecordGrouping(days, sessions int) {
	GroupingSize.WithLabelValues("days").Observe(float64(days))
	GroupingSize.WithLabelValues("sessions").Observe(float64(sessions))
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}
