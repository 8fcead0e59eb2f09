package storage

import (
	"context"

	"github.com/vietddude/paywatch/internal/core/domain"
)

// PaymentRepository stores per-order payment confirmation state.
type PaymentRepository interface {
	// Save inserts or replaces the payment keyed by OrderID
	Save(ctx context.Context, payment *domain.TrackedPayment) error

	// Get retrieves a payment by order id. Returns domain.ErrPaymentNotFound if absent.
	Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error)

	// List returns all tracked payments, oldest first
	List(ctx context.Context) ([]*domain.TrackedPayment, error)

	// Delete removes a payment. Deleting an unknown order is not an error.
	Delete(ctx context.Context, orderID string) error
}
