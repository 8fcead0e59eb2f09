package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
)

// Checker pings a dependency. A nil error means healthy.
type Checker func(ctx context.Context) error

// Monitor aggregates health status from explorer providers and dependencies.
type Monitor struct {
	providers  []provider.Provider
	checkers   map[string]Checker
	interval   time.Duration
	lastCheck  time.Time
	lastReport *HealthReport
	now        func() time.Time
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor.
func NewMonitor(providers []provider.Provider, checkers map[string]Checker) *Monitor {
	return &Monitor{
		providers: providers,
		checkers:  checkers,
		interval:  10 * time.Second,
		now:       time.Now,
	}
}

// CheckHealth builds a report, reusing the previous one if it is recent.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering dependencies
	if m.lastReport != nil && m.now().Sub(m.lastCheck) < m.interval {
		return *m.lastReport
	}

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Providers:    make(map[string]ProviderHealth, len(m.providers)),
		Components:   make(map[string]ComponentHealth, len(m.checkers)),
	}

	for _, p := range m.providers {
		h := p.GetHealth()
		ph := ProviderHealth{
			Name:      p.GetName(),
			Status:    StatusHealthy,
			Available: h.Available,
			ErrorRate: h.ErrorRate,
			Monitor:   h.MonitorStats,
		}

		if h.MonitorStats != nil {
			switch h.MonitorStats.Status {
			case provider.StatusBlocked:
				ph.Status = StatusCritical
			case provider.StatusThrottled, provider.StatusDegraded:
				ph.Status = StatusDegraded
			}
		}
		if !h.Available && ph.Status == StatusHealthy {
			ph.Status = StatusDegraded
		}

		report.Providers[ph.Name] = ph
		report.SystemStatus = worst(report.SystemStatus, ph.Status)
	}

	for name, check := range m.checkers {
		ch := ComponentHealth{Status: StatusHealthy}
		if err := check(ctx); err != nil {
			ch.Status = StatusCritical
			ch.Error = err.Error()
		}
		report.Components[name] = ch
		report.SystemStatus = worst(report.SystemStatus, ch.Status)
	}

	m.lastCheck = m.now()
	m.lastReport = &report
	return report
}

func worst(a, b SystemStatus) SystemStatus {
	rank := map[SystemStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusCritical: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
