package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/paywatch/internal/core/domain"
)

// HTTPProvider implements Provider for REST explorer APIs over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int

	Monitor *ProviderMonitor
}

// NewHTTPProvider creates a new HTTP-based explorer provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: slog.Default().With("provider", name),
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
		Monitor: NewProviderMonitor(),
	}
}

// Execute performs a REST call and returns the response body on 2xx.
func (p *HTTPProvider) Execute(ctx context.Context, op Operation) ([]byte, error) {
	start := time.Now()

	// Pre-call checks
	if status := p.Monitor.CheckProviderStatus(); status == StatusThrottled || status == StatusBlocked {
		return nil, p.fail(op, 0, fmt.Errorf("provider throttled, retry after: %v", p.Monitor.GetRetryAfter()))
	}

	method := op.Method
	if method == "" {
		method = http.MethodGet
	}

	target := op.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = p.endpoint + "/" + strings.TrimLeft(op.Path, "/")
	}
	if len(op.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + op.Query.Encode()
	}

	var body io.Reader
	if op.Body != nil {
		jsonData, err := json.Marshal(op.Body)
		if err != nil {
			return nil, p.fail(op, 0, fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, p.fail(op, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if op.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range op.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail(op, 0, fmt.Errorf("%s %s: %w", method, op.Name, err))
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	// Rate limit detection
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		p.Monitor.RecordThrottle(http.StatusTooManyRequests, retryAfter)
		p.log.Warn("provider rate limited", "operation", op.Name, "retry_after", retryAfter)
		return nil, p.fail(op, resp.StatusCode, fmt.Errorf("rate limited (429), retry after: %s", retryAfter))
	}

	// IP blocked detection
	if resp.StatusCode == http.StatusForbidden {
		p.Monitor.RecordThrottle(http.StatusForbidden, "")
		return nil, p.fail(op, resp.StatusCode, fmt.Errorf("forbidden (403)"))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.fail(op, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if p.Monitor.DetectThrottlePattern(string(respBody)) {
			return nil, p.fail(op, resp.StatusCode, fmt.Errorf("throttle detected in response: %s", string(respBody)))
		}
		return nil, p.fail(op, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(respBody))))
	}

	p.Monitor.RecordRequest(latency)
	p.recordSuccess(latency)

	return respBody, nil
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// GetHealth returns the provider's health status.
func (p *HTTPProvider) GetHealth() HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	health := p.health
	stats := p.Monitor.GetStats()
	health.MonitorStats = &stats
	return health
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// IsAvailable checks if the provider is available.
func (p *HTTPProvider) IsAvailable() bool {
	status := p.Monitor.CheckProviderStatus()
	return status == StatusHealthy || status == StatusDegraded
}

func (p *HTTPProvider) fail(op Operation, statusCode int, err error) error {
	p.recordFailure()
	return &domain.ProviderError{
		Provider:   p.name,
		Operation:  op.Name,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (p *HTTPProvider) recordSuccess(latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.successCount++
	p.requestCount++
	p.totalLatency += latency
	p.health.LastSuccessAt = time.Now()
	p.health.Available = true

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}
	if p.successCount > 0 {
		p.health.Latency = p.totalLatency / time.Duration(p.successCount)
	}
}

func (p *HTTPProvider) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	p.requestCount++
	p.health.LastFailureAt = time.Now()

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}

	if p.health.ErrorRate > 0.5 {
		p.health.Available = false
	}
}
