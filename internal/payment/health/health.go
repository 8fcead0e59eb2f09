// Package health provides service health monitoring and the read-only HTTP API.
package health

import "github.com/vietddude/paywatch/internal/infra/rpc/provider"

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ProviderHealth contains health metrics for one explorer provider.
type ProviderHealth struct {
	Name      string                 `json:"name"`
	Status    SystemStatus           `json:"status"`
	Available bool                   `json:"available"`
	ErrorRate float64                `json:"error_rate"`
	Monitor   *provider.MonitorStats `json:"monitor,omitempty"`
}

// ComponentHealth reports a dependency such as the tracking store.
type ComponentHealth struct {
	Status SystemStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus               `json:"system_status"`
	Providers    map[string]ProviderHealth  `json:"providers"`
	Components   map[string]ComponentHealth `json:"components,omitempty"`
}
