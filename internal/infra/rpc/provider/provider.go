// Package provider implements explorer API providers.
//
// This package contains:
//   - Provider interface: core abstraction for explorer endpoints
//   - HTTPProvider: REST over HTTP implementation
//   - ProviderMonitor: health and rate tracking
package provider

import (
	"context"
	"net/url"
	"time"
)

// Operation represents a single REST call against an explorer API.
type Operation struct {
	// Name identifies the operation for logs and metrics (e.g., "list_hooks").
	Name string

	// Method is the HTTP method (GET, POST, DELETE). Defaults to GET.
	Method string

	// Path is appended to the provider endpoint. An absolute URL is used as-is.
	Path string

	// Query parameters added to the request URL.
	Query url.Values

	// Headers added to the request (credentials, API keys).
	Headers map[string]string

	// Body is JSON-encoded when non-nil.
	Body any

	// NonIdempotent operations create remote state and are never retried.
	NonIdempotent bool
}

// Provider defines the core interface for any explorer provider.
type Provider interface {
	// GetName returns provider identifier (e.g., "blockcypher-btc", "trongrid")
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// IsAvailable checks if the provider is healthy enough to use
	IsAvailable() bool

	// Execute performs the operation and returns the raw response body
	Execute(ctx context.Context, op Operation) ([]byte, error)

	// Close cleans up resources
	Close() error
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
