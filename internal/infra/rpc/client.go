package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
	"github.com/vietddude/paywatch/internal/infra/rpc/routing"
)

// Client is the high-level interface for making explorer calls.
// This is what application layers should use.
type Client struct {
	provider provider.Provider
	retry    routing.RetryConfig
}

// NewClient creates a new client over a single provider.
func NewClient(p provider.Provider, retry routing.RetryConfig) *Client {
	return &Client{provider: p, retry: retry}
}

// Call executes the operation under the client's retry policy.
func (c *Client) Call(ctx context.Context, op Operation) ([]byte, error) {
	return routing.ExecuteWithRetry(ctx, c.provider, op, c.retry)
}

// CallJSON executes the operation and decodes the JSON response into out.
// A nil out or an empty body discards the response.
func (c *Client) CallJSON(ctx context.Context, op Operation, out any) error {
	body, err := c.Call(ctx, op)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ProviderError{
			Provider:  c.provider.GetName(),
			Operation: op.Name,
			Err:       fmt.Errorf("parse response: %w", err),
		}
	}
	return nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() provider.Provider {
	return c.provider
}

// GetProviderStats returns monitoring stats for the provider.
func (c *Client) GetProviderStats() (MonitorStats, bool) {
	if httpProv, ok := c.provider.(*provider.HTTPProvider); ok {
		return httpProv.Monitor.GetStats(), true
	}
	return MonitorStats{}, false
}

// PrintMonitorDashboard returns a formatted dashboard string.
func (c *Client) PrintMonitorDashboard() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Provider: %s\n", c.provider.GetName()))

	stats, ok := c.GetProviderStats()
	if !ok {
		health := c.provider.GetHealth()
		sb.WriteString(fmt.Sprintf("  Available: %t\n", health.Available))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  Status: %s\n", stats.Status))
	sb.WriteString(fmt.Sprintf("  Avg Latency: %v\n", stats.AverageLatency))
	sb.WriteString(fmt.Sprintf("  429 Errors: %d\n", stats.ThrottleCount429))
	sb.WriteString(fmt.Sprintf("  403 Errors: %d\n", stats.ThrottleCount403))
	sb.WriteString(fmt.Sprintf("  Usage: %d/%d (%.1f%%)\n",
		stats.RequestsLast24Hours,
		stats.EstimatedDailyLimit,
		stats.UsagePercentage))

	return sb.String()
}
