package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/payment/metrics"
)

// Dispatcher routes a verification request to the strategy for the
// currency's chain class.
type Dispatcher struct {
	registry  *registry.Registry
	verifiers map[domain.ChainClass]Verifier
	log       *slog.Logger
}

// NewDispatcher builds the class -> strategy table. A later verifier for the
// same class replaces an earlier one.
func NewDispatcher(reg *registry.Registry, verifiers ...Verifier) *Dispatcher {
	d := &Dispatcher{
		registry:  reg,
		verifiers: make(map[domain.ChainClass]Verifier, len(verifiers)),
		log:       slog.Default().With("component", "dispatcher"),
	}
	for _, v := range verifiers {
		d.verifiers[v.Class()] = v
	}
	return d
}

// Classes returns the chain classes that have a strategy.
func (d *Dispatcher) Classes() []domain.ChainClass {
	out := make([]domain.ChainClass, 0, len(d.verifiers))
	for _, c := range domain.ChainClasses {
		if _, ok := d.verifiers[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// GetPaymentByAddress reports whether address has received a payment in currency.
func (d *Dispatcher) GetPaymentByAddress(ctx context.Context, address, currency string) (*domain.VerificationResult, error) {
	start := time.Now()
	code := domain.NormalizeCurrency(currency)

	cfg, err := d.registry.Lookup(currency)
	if err != nil {
		// unknown codes share one label to bound cardinality
		d.recordError("unknown", err)
		return nil, err
	}
	if address == "" {
		err := fmt.Errorf("%w: empty address", domain.ErrInvalidArgument)
		d.recordError(code, err)
		return nil, err
	}

	v, ok := d.verifiers[cfg.Class]
	if !ok {
		err := fmt.Errorf("%w: %s (class %s)", domain.ErrVerificationNotImplemented, code, cfg.Class)
		d.recordError(code, err)
		return nil, err
	}

	d.log.Debug("Dispatching verification", "currency", code, "class", cfg.Class, "address", address)

	result, err := v.Verify(ctx, code, address, cfg)
	metrics.VerificationLatency.WithLabelValues(string(code), string(cfg.Class)).Observe(time.Since(start).Seconds())
	if err != nil {
		d.recordError(code, err)
		return nil, fmt.Errorf("failed to verify %s payment: %w", code, err)
	}

	metrics.VerificationsTotal.WithLabelValues(string(code), string(cfg.Class), string(result.Status)).Inc()
	return result, nil
}

func (d *Dispatcher) recordError(code domain.Currency, err error) {
	metrics.VerificationErrorsTotal.WithLabelValues(string(code), errorType(err)).Inc()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return "unsupported_currency"
	case errors.Is(err, domain.ErrVerificationNotImplemented):
		return "not_implemented"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrProvider):
		return "provider"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
