package postgres

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
)

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected embedded migrations")
	}

	data, err := fs.ReadFile(migrations, "migrations/"+entries[0].Name())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "-- +goose Up") || !strings.Contains(string(data), "tracked_payments") {
		t.Error("migration should create tracked_payments under a goose Up marker")
	}
}

// TestPaymentRepo_Postgres runs against a live database when
// PAYWATCH_TEST_DATABASE_URL is set.
func TestPaymentRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("PAYWATCH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PAYWATCH_TEST_DATABASE_URL not set")
	}

	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			db, err := NewDB(ctx, Config{URL: dsn, Driver: driver})
			if err != nil {
				t.Fatalf("NewDB failed: %v", err)
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				t.Fatalf("Migrate failed: %v", err)
			}

			repo := NewPaymentRepo(db)
			orderID := "test-" + driver + "-" + time.Now().Format("150405.000000")
			defer repo.Delete(ctx, orderID)

			now := time.Now().UTC().Truncate(time.Microsecond)
			p := &domain.TrackedPayment{
				OrderID:   orderID,
				Currency:  domain.CurrencyDOGE,
				Address:   "D8addr",
				WebhookID: "hook",
				State:     domain.PaymentStateAwaitingConfirmation,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			p.State = domain.PaymentStateConfirmed
			p.TxHash = "tx"
			p.Confirmations = 6
			p.ConfirmedAt = &now
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			got, err := repo.Get(ctx, orderID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.State != domain.PaymentStateConfirmed || got.Confirmations != 6 || got.ConfirmedAt == nil {
				t.Errorf("unexpected payment %+v", got)
			}

			if err := repo.Delete(ctx, orderID); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := repo.Get(ctx, orderID); !errors.Is(err, domain.ErrPaymentNotFound) {
				t.Errorf("expected ErrPaymentNotFound, got %v", err)
			}
		})
	}
}
