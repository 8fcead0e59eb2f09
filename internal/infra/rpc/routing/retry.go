package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// NoRetry makes exactly one attempt.
var NoRetry = RetryConfig{MaxAttempts: 1}

// Executor runs a single explorer operation.
type Executor interface {
	Execute(ctx context.Context, op provider.Operation) ([]byte, error)
}

// ErrorAction determines how to handle an error.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFailover
	ActionFatal
)

func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFailover:
		return "failover"
	case ActionFatal:
		return "fatal"
	}
	return "unknown"
}

// ClassifyError determines the action for a given error.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionRetry // Should not happen
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ActionFatal
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) && pe.StatusCode > 0 {
		switch {
		case pe.StatusCode == http.StatusTooManyRequests, pe.StatusCode == http.StatusForbidden,
			pe.StatusCode == http.StatusUnauthorized:
			return ActionFailover
		case pe.StatusCode == http.StatusRequestTimeout:
			return ActionRetry
		case pe.StatusCode >= 400 && pe.StatusCode < 500:
			return ActionFatal
		}
	}

	sLower := strings.ToLower(err.Error())

	// Failover (quota or credential issues)
	if strings.Contains(sLower, "too many requests") ||
		strings.Contains(sLower, "forbidden") ||
		strings.Contains(sLower, "quota") ||
		strings.Contains(sLower, "unauthorized") ||
		strings.Contains(sLower, "rate limit") ||
		strings.Contains(sLower, "throttled") ||
		strings.Contains(sLower, "limits reached") {
		return ActionFailover
	}

	if strings.Contains(sLower, "parse response") || strings.Contains(sLower, "marshal request") {
		return ActionFatal
	}

	// Default to Retry (Network, 5xx, etc)
	return ActionRetry
}

// ExecuteWithRetry executes an operation with exponential backoff.
// Only errors classified as ActionRetry are retried, and non-idempotent
// operations get a single attempt.
func ExecuteWithRetry(
	ctx context.Context,
	p Executor,
	op provider.Operation,
	config RetryConfig,
) ([]byte, error) {
	attempts := config.MaxAttempts
	if attempts < 1 || op.NonIdempotent {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := p.Execute(ctx, op)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ClassifyError(err) != ActionRetry {
			return nil, err
		}
		if attempt == attempts-1 {
			break
		}

		delay := calculateBackoff(attempt, config)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if attempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	multiple := config.BackoffMultiple
	if multiple < 1 {
		multiple = 1
	}
	delay := float64(config.InitialDelay) * math.Pow(multiple, float64(attempt))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
