package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vietddude/paywatch/internal/core/domain"
)

// PaymentRepo implements storage.PaymentRepository using PostgreSQL.
type PaymentRepo struct {
	db *DB
}

// NewPaymentRepo creates a new PostgreSQL payment repository.
func NewPaymentRepo(db *DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const upsertPayment = `
INSERT INTO tracked_payments (
    order_id, currency, address, webhook_id, state, tx_hash,
    confirmations, created_at, updated_at, confirmed_at
) VALUES (
    :order_id, :currency, :address, :webhook_id, :state, :tx_hash,
    :confirmations, :created_at, :updated_at, :confirmed_at
)
ON CONFLICT (order_id) DO UPDATE SET
    currency      = EXCLUDED.currency,
    address       = EXCLUDED.address,
    webhook_id    = EXCLUDED.webhook_id,
    state         = EXCLUDED.state,
    tx_hash       = EXCLUDED.tx_hash,
    confirmations = EXCLUDED.confirmations,
    updated_at    = EXCLUDED.updated_at,
    confirmed_at  = EXCLUDED.confirmed_at`

const selectPayment = `
SELECT order_id, currency, address, webhook_id, state, tx_hash,
       confirmations, created_at, updated_at, confirmed_at
FROM tracked_payments`

// Save inserts or updates a payment.
func (r *PaymentRepo) Save(ctx context.Context, p *domain.TrackedPayment) error {
	if _, err := r.db.NamedExecContext(ctx, upsertPayment, p); err != nil {
		return fmt.Errorf("failed to save payment %s: %w", p.OrderID, err)
	}
	return nil
}

// Get retrieves a payment by order id.
func (r *PaymentRepo) Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error) {
	var p domain.TrackedPayment
	err := r.db.GetContext(ctx, &p, selectPayment+` WHERE order_id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", orderID, err)
	}
	return &p, nil
}

// List retrieves all payments, oldest first.
func (r *PaymentRepo) List(ctx context.Context) ([]*domain.TrackedPayment, error) {
	var payments []*domain.TrackedPayment
	if err := r.db.SelectContext(ctx, &payments, selectPayment+` ORDER BY created_at, order_id`); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// Delete removes a payment.
func (r *PaymentRepo) Delete(ctx context.Context, orderID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tracked_payments WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", orderID, err)
	}
	return nil
}
