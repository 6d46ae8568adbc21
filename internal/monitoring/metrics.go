// Package monitoring holds the Prometheus collectors exported on /metrics.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeReplayed      = "replayed"
	OutcomeValidation    = "validation_error"
	OutcomeConflict      = "conflict"
	OutcomeUnavailable   = "unavailable"
	OutcomeProviderError = "provider_error"
	OutcomeError         = "error"
)

// Best-effort steps of registration finalization.
const (
	StepGroupSync   = "group_sync"
	StepCouponUsage = "coupon_usage"
	StepEmail       = "email"
)

var (
	checkoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout session requests by outcome",
		},
		[]string{"outcome"},
	)

	checkoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_session_duration_seconds",
			Help:    "Time spent creating checkout sessions",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"outcome"},
	)

	registrationsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_finalized_total",
			Help: "Registrations persisted by action, ticket type and status",
		},
		[]string{"action", "ticket_type", "status"},
	)

	bestEffortFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_best_effort_failures_total",
			Help: "Secondary registration steps that failed without failing the request",
		},
		[]string{"step"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// ObserveCheckout records one checkout session attempt.
func ObserveCheckout(outcome string, d time.Duration) {
	checkoutSessions.WithLabelValues(outcome).Inc()
	checkoutDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RegistrationFinalized records a persisted registration.
func RegistrationFinalized(action, ticketType, status string) {
	registrationsFinalized.WithLabelValues(action, ticketType, status).Inc()
}

// BestEffortFailure records a secondary step that failed and was logged.
func BestEffortFailure(step string) {
	bestEffortFailures.WithLabelValues(step).Inc()
}

// ObserveHTTPRequest records a served request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RateLimited records a request rejected by the rate limiter.
func RateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
