package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/storage"
)

// Pruner deletes confirmed payments once they are older than the retention period.
// Awaiting payments are never pruned.
type Pruner struct {
	retention time.Duration
	repo      storage.PaymentRepository
	now       func() time.Time
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, repo storage.PaymentRepository) *Pruner {
	return &Pruner{
		retention: retention,
		repo:      repo,
		now:       time.Now,
		log:       slog.Default().With("component", "pruner"),
	}
}

// Start runs the pruner loop until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// 10% of retention, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.Prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Prune(ctx)
		}
	}
}

// Prune removes expired confirmed payments and returns how many were deleted.
func (p *Pruner) Prune(ctx context.Context) int {
	threshold := p.now().Add(-p.retention)

	payments, err := p.repo.List(ctx)
	if err != nil {
		p.log.Error("Failed to list payments", "error", err)
		return 0
	}

	deleted := 0
	for _, pay := range payments {
		if pay.State != domain.PaymentStateConfirmed || pay.ConfirmedAt == nil {
			continue
		}
		if pay.ConfirmedAt.After(threshold) {
			continue
		}
		if err := p.repo.Delete(ctx, pay.OrderID); err != nil {
			p.log.Error("Failed to prune payment", "order_id", pay.OrderID, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		p.log.Info("Pruned confirmed payments", "count", deleted)
	}
	return deleted
}
