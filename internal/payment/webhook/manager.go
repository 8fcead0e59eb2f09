// Package webhook manages provider push subscriptions for UTXO payment addresses.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/infra/chain"
	"github.com/vietddude/paywatch/internal/payment/metrics"
)

// Recorder is notified of every successful registration.
// *tracking.Tracker implements it.
type Recorder interface {
	Track(ctx context.Context, reg domain.Registration) error
}

// Manager registers, lists and deletes webhooks per currency.
type Manager struct {
	registry     *registry.Registry
	adapters     map[domain.Currency]chain.WebhookAdapter
	callbackBase string
	recorder     Recorder
	log          *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder records each registration (typically in the payment tracker).
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a webhook manager. adapters holds one webhook adapter per
// utxo-class currency; callbackBase is the public URL that receives deliveries.
func NewManager(
	reg *registry.Registry,
	adapters map[domain.Currency]chain.WebhookAdapter,
	callbackBase string,
	opts ...Option,
) *Manager {
	m := &Manager{
		registry:     reg,
		adapters:     adapters,
		callbackBase: callbackBase,
		log:          slog.Default().With("component", "webhook"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) adapterFor(code string) (domain.Currency, chain.WebhookAdapter, error) {
	cfg, err := m.registry.Lookup(code)
	if err != nil {
		return "", nil, err
	}
	currency := domain.NormalizeCurrency(code)
	if cfg.Class != domain.ChainClassUTXO {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrWebhookNotSupported, currency)
	}
	a, ok := m.adapters[currency]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s has no webhook adapter", domain.ErrWebhookNotSupported, currency)
	}
	return currency, a, nil
}

// CallbackURL returns the delivery URL for an order: the callback base with
// orderId set as a query parameter. The base must be an absolute URL.
func (m *Manager) CallbackURL(orderID string) (string, error) {
	u, err := url.Parse(m.callbackBase)
	if err != nil {
		return "", fmt.Errorf("%w: invalid callback base url: %v", domain.ErrInvalidArgument, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: callback base url %q is not absolute (set callback.base_url)", domain.ErrInvalidArgument, m.callbackBase)
	}
	q := u.Query()
	q.Set("orderId", orderID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RegisterWebhook subscribes to confirmed and unconfirmed transactions for
// address and returns the registration. Each call is independent; concurrent
// registrations for different orders do not interfere.
func (m *Manager) RegisterWebhook(ctx context.Context, address, currency, orderID string) (*domain.Registration, error) {
	code, adapter, err := m.adapterFor(currency)
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", domain.ErrInvalidArgument)
	}
	if orderID == "" {
		return nil, fmt.Errorf("%w: empty order id", domain.ErrInvalidArgument)
	}

	callback, err := m.CallbackURL(orderID)
	if err != nil {
		return nil, err
	}

	id, err := adapter.CreateHook(ctx, address, callback)
	if err != nil {
		metrics.WebhookOperationsTotal.WithLabelValues(string(code), "register", "error").Inc()
		m.log.Error("Failed to register webhook", "currency", code, "address", address, "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to register webhook: %w", err)
	}
	metrics.WebhookOperationsTotal.WithLabelValues(string(code), "register", "ok").Inc()

	reg := &domain.Registration{
		OrderID:     orderID,
		WebhookID:   id,
		Currency:    code,
		Address:     address,
		CallbackURL: callback,
	}
	m.log.Info("Webhook registered", "currency", code, "address", address, "order_id", orderID, "webhook_id", id)

	if m.recorder != nil {
		if err := m.recorder.Track(ctx, *reg); err != nil {
			// The subscription exists on the provider; surface the tracking failure with it.
			return reg, fmt.Errorf("webhook %s registered but not tracked: %w", id, err)
		}
	}

	return reg, nil
}

// ListWebhooks returns every active subscription for the currency's credential.
func (m *Manager) ListWebhooks(ctx context.Context, currency string) ([]domain.WebhookSubscription, error) {
	code, adapter, err := m.adapterFor(currency)
	if err != nil {
		return nil, err
	}

	hooks, err := adapter.ListHooks(ctx)
	if err != nil {
		metrics.WebhookOperationsTotal.WithLabelValues(string(code), "list", "error").Inc()
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	metrics.WebhookOperationsTotal.WithLabelValues(string(code), "list", "ok").Inc()

	subs := make([]domain.WebhookSubscription, 0, len(hooks))
	for _, h := range hooks {
		events := make([]domain.EventKind, 0, len(h.Events))
		for _, e := range h.Events {
			events = append(events, domain.EventKind(e))
		}
		subs = append(subs, domain.WebhookSubscription{
			ID:       h.ID,
			Currency: code,
			Address:  h.Address,
			Events:   events,
			URL:      h.URL,
		})
	}
	return subs, nil
}

// DeleteWebhook deletes one subscription. Failures are logged and returned.
func (m *Manager) DeleteWebhook(ctx context.Context, webhookID, currency string) error {
	code, adapter, err := m.adapterFor(currency)
	if err != nil {
		return err
	}

	if err := adapter.DeleteHook(ctx, webhookID); err != nil {
		metrics.WebhookOperationsTotal.WithLabelValues(string(code), "delete", "error").Inc()
		m.log.Error("Error deleting webhook", "currency", code, "webhook_id", webhookID, "error", err)
		return err
	}
	metrics.WebhookOperationsTotal.WithLabelValues(string(code), "delete", "ok").Inc()
	m.log.Info("Webhook deleted", "currency", code, "webhook_id", webhookID)
	return nil
}

// DeleteAllWebhooks lists then deletes every subscription in order. It stops at
// the first failure; hooks deleted before it stay deleted.
func (m *Manager) DeleteAllWebhooks(ctx context.Context, currency string) error {
	subs, err := m.ListWebhooks(ctx, currency)
	if err != nil {
		return err
	}

	for i, s := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.DeleteWebhook(ctx, s.ID, currency); err != nil {
			return fmt.Errorf("deleted %d of %d webhooks: %w", i, len(subs), err)
		}
	}
	return nil
}

