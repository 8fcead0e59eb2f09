// Package tracking keeps the awaiting/confirmed state of webhook-driven payments.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/storage"
	"github.com/vietddude/paywatch/internal/payment/metrics"
)

// Tracker owns the per-order state machine AwaitingConfirmation -> Confirmed.
// Only Confirm moves an order forward; there is no way back.
type Tracker struct {
	repo storage.PaymentRepository
	log  *slog.Logger
	now  func() time.Time

	// serializes read-modify-write per process
	mu sync.Mutex
}

// NewTracker creates a tracker over the given repository.
func NewTracker(repo storage.PaymentRepository) *Tracker {
	return &Tracker{
		repo: repo,
		log:  slog.Default().With("component", "tracker"),
		now:  time.Now,
	}
}

// Track records an order as awaiting confirmation. Re-tracking an order that is
// still awaiting replaces its webhook details; re-tracking a confirmed order
// fails with domain.ErrInvalidTransition.
func (t *Tracker) Track(ctx context.Context, reg domain.Registration) error {
	if reg.OrderID == "" {
		return fmt.Errorf("%w: empty order id", domain.ErrInvalidArgument)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	p := &domain.TrackedPayment{
		OrderID:   reg.OrderID,
		Currency:  reg.Currency,
		Address:   reg.Address,
		WebhookID: reg.WebhookID,
		State:     domain.PaymentStateAwaitingConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := t.repo.Get(ctx, reg.OrderID)
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
	case err != nil:
		return fmt.Errorf("failed to load payment %s: %w", reg.OrderID, err)
	case existing.State == domain.PaymentStateConfirmed:
		return fmt.Errorf("%w: order %s is already confirmed", domain.ErrInvalidTransition, reg.OrderID)
	default:
		p.CreatedAt = existing.CreatedAt
	}

	if err := t.repo.Save(ctx, p); err != nil {
		return err
	}

	metrics.PaymentStateTransitions.WithLabelValues(string(p.Currency), string(p.State)).Inc()
	t.log.Info("Tracking payment", "order_id", p.OrderID, "currency", p.Currency, "address", p.Address)
	return nil
}

// Confirm moves an order to Confirmed. Confirming an already confirmed order
// returns the stored record unchanged.
func (t *Tracker) Confirm(ctx context.Context, orderID string, c domain.Confirmation) (*domain.TrackedPayment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.repo.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load payment %s: %w", orderID, err)
	}

	if !p.State.CanTransition(domain.PaymentStateConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, p.State, domain.PaymentStateConfirmed)
	}
	if p.State == domain.PaymentStateConfirmed {
		return p, nil
	}

	now := t.now().UTC()
	p.State = domain.PaymentStateConfirmed
	p.TxHash = c.TxHash
	p.Confirmations = c.Confirmations
	p.UpdatedAt = now
	p.ConfirmedAt = &now

	if err := t.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	metrics.PaymentStateTransitions.WithLabelValues(string(p.Currency), string(p.State)).Inc()
	t.log.Info("Payment confirmed", "order_id", orderID, "tx_hash", c.TxHash, "confirmations", c.Confirmations)
	return p, nil
}

// Get returns the tracked state of an order.
func (t *Tracker) Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error) {
	p, err := t.repo.Get(ctx, orderID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, orderID)
	}
	return p, err
}

// List returns every tracked payment, oldest first.
func (t *Tracker) List(ctx context.Context) ([]*domain.TrackedPayment, error) {
	return t.repo.List(ctx)
}
