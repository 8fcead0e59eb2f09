package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vietddude/paywatch/internal/core/domain"
)

// PaymentRepo implements storage.PaymentRepository using Redis.
// Each payment is a JSON value; a sorted set indexes order ids by creation time.
type PaymentRepo struct {
	client *Client
}

// NewPaymentRepo creates a new Redis-backed payment repository.
func NewPaymentRepo(client *Client) *PaymentRepo {
	return &PaymentRepo{client: client}
}

// Save stores the payment and indexes it.
func (r *PaymentRepo) Save(ctx context.Context, p *domain.TrackedPayment) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	pipe := r.client.rdb.TxPipeline()
	pipe.Set(ctx, paymentKey(p.OrderID), data, r.client.ttl)
	pipe.ZAdd(ctx, paymentIndexKey, redis.Z{
		Score:  float64(p.CreatedAt.UnixMilli()),
		Member: p.OrderID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save payment %s: %w", p.OrderID, err)
	}
	return nil
}

// Get retrieves a payment by order id.
func (r *PaymentRepo) Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error) {
	data, err := r.client.rdb.Get(ctx, paymentKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", orderID, err)
	}

	var p domain.TrackedPayment
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment %s: %w", orderID, err)
	}
	return &p, nil
}

// List returns every indexed payment, oldest first. Expired entries are
// dropped from the index as they are found.
func (r *PaymentRepo) List(ctx context.Context) ([]*domain.TrackedPayment, error) {
	ids, err := r.client.rdb.ZRange(ctx, paymentIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	payments := make([]*domain.TrackedPayment, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrPaymentNotFound) {
			r.client.rdb.ZRem(ctx, paymentIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// Delete removes a payment and its index entry.
func (r *PaymentRepo) Delete(ctx context.Context, orderID string) error {
	pipe := r.client.rdb.TxPipeline()
	pipe.Del(ctx, paymentKey(orderID))
	pipe.ZRem(ctx, paymentIndexKey, orderID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", orderID, err)
	}
	return nil
}
