package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal tracks verification requests per currency and outcome
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywatch_verifications_total",
			Help: "Total number of payment verifications",
		},
		[]string{"currency", "class", "status"},
	)

	// VerificationErrorsTotal tracks failed verifications per currency
	VerificationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywatch_verification_errors_total",
			Help: "Total number of failed payment verifications",
		},
		[]string{"currency", "error_type"},
	)

	// VerificationLatency tracks verification latency
	VerificationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paywatch_verification_latency_seconds",
			Help:    "Payment verification latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"currency", "class"},
	)

	// WebhookOperationsTotal tracks webhook lifecycle calls per currency
	WebhookOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywatch_webhook_operations_total",
			Help: "Total number of webhook register/list/delete operations",
		},
		[]string{"currency", "operation", "result"},
	)

	// PaymentStateTransitions tracks tracked payment state changes
	PaymentStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywatch_payment_state_transitions_total",
			Help: "Total number of tracked payment state transitions",
		},
		[]string{"currency", "state"},
	)

	// HTTPRequestsTotal tracks API requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paywatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	// HTTPRequestDuration tracks API request latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paywatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// DBConnectionPoolUsage tracks the percentage of open database connections
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "paywatch_db_connection_pool_usage_percent",
			Help: "Percentage of the database connection pool in use",
		},
	)
)
