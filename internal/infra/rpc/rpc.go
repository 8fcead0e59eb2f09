// Package rpc provides a resilient client for blockchain explorer APIs.
//
// This package offers explorer connectivity with:
//   - REST providers over HTTP (BlockCypher, Solscan, TronGrid)
//   - Configurable retry with error classification
//   - Rate limit and health monitoring
//
// # Quick Start
//
//	import "github.com/vietddude/paywatch/internal/infra/rpc"
//
//	p := rpc.NewHTTPProvider("solscan", "https://api.solscan.io", 30*time.Second)
//	client := rpc.NewClient(p, rpc.NoRetry)
//
//	var out []solscan.Transaction
//	err := client.CallJSON(ctx, rpc.NewGetOperation("account_transactions", "/account/transactions", query), &out)
//
// # Package Structure
//
//   - provider/ - Provider implementations (HTTPProvider, monitoring)
//   - routing/  - Retry logic and error classification
//
// Most types are re-exported at the root level for convenience.
package rpc

import (
	"time"

	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
	"github.com/vietddude/paywatch/internal/infra/rpc/routing"
)

// =============================================================================
// Re-exported types from provider package
// =============================================================================

// Provider is the core interface for explorer endpoints.
type Provider = provider.Provider

// HTTPProvider implements Provider for REST over HTTP.
type HTTPProvider = provider.HTTPProvider

// MonitorStats holds monitoring statistics for a provider.
type MonitorStats = provider.MonitorStats

// Operation represents a REST call to execute.
type Operation = provider.Operation

// NewHTTPProvider creates a new HTTP-based explorer provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return provider.NewHTTPProvider(name, endpoint, timeout)
}

// =============================================================================
// Re-exported types from routing package
// =============================================================================

// RetryConfig defines retry behavior.
type RetryConfig = routing.RetryConfig

// NoRetry makes exactly one attempt per call.
var NoRetry = routing.NoRetry
