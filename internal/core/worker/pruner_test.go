package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/storage/memory"
)

func TestPruner_RemovesOnlyExpiredConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPaymentRepo(memory.NewMemoryStorage())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	old := now.Add(-48 * time.Hour)
	recent := now.Add(-1 * time.Hour)

	fixtures := []*domain.TrackedPayment{
		{OrderID: "old-confirmed", State: domain.PaymentStateConfirmed, CreatedAt: old, ConfirmedAt: &old},
		{OrderID: "recent-confirmed", State: domain.PaymentStateConfirmed, CreatedAt: recent, ConfirmedAt: &recent},
		{OrderID: "old-awaiting", State: domain.PaymentStateAwaitingConfirmation, CreatedAt: old},
	}
	for _, f := range fixtures {
		if err := repo.Save(ctx, f); err != nil {
			t.Fatalf("Save(%s) failed: %v", f.OrderID, err)
		}
	}

	p := NewPruner(24*time.Hour, repo)
	p.now = func() time.Time { return now }

	if got := p.Prune(ctx); got != 1 {
		t.Fatalf("expected 1 pruned payment, got %d", got)
	}

	if _, err := repo.Get(ctx, "old-confirmed"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("expected old-confirmed to be pruned, got %v", err)
	}
	for _, id := range []string{"recent-confirmed", "old-awaiting"} {
		if _, err := repo.Get(ctx, id); err != nil {
			t.Errorf("expected %s to be kept, got %v", id, err)
		}
	}
}

func TestPruner_DisabledReturnsImmediately(t *testing.T) {
	repo := memory.NewPaymentRepo(memory.NewMemoryStorage())
	p := NewPruner(0, repo)

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return with retention disabled")
	}
}
