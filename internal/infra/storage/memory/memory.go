package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vietddude/paywatch/internal/core/domain"
)

type MemoryStorage struct {
	payments map[string]*domain.TrackedPayment
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		payments: make(map[string]*domain.TrackedPayment),
	}
}

// -----------------------------------------------------------------------------
// Payment Repository
// -----------------------------------------------------------------------------

type PaymentRepo struct {
	store *MemoryStorage
}

func NewPaymentRepo(store *MemoryStorage) *PaymentRepo {
	return &PaymentRepo{store: store}
}

func (r *PaymentRepo) Save(ctx context.Context, p *domain.TrackedPayment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.payments[p.OrderID] = &cp
	return nil
}

func (r *PaymentRepo) Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.payments[orderID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) List(ctx context.Context) ([]*domain.TrackedPayment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.TrackedPayment, 0, len(r.store.payments))
	for _, p := range r.store.payments {
		cp := *p
		out = append(out, &cp)
	}
	sortPayments(out)
	return out, nil
}

func (r *PaymentRepo) Delete(ctx context.Context, orderID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.payments, orderID)
	return nil
}

func sortPayments(ps []*domain.TrackedPayment) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].OrderID < ps[j].OrderID
		}
		return ps[i].CreatedAt.Before(ps[j].CreatedAt)
	})
}
