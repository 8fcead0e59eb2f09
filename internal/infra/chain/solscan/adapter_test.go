package solscan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/rpc"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/transactions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("account") != "SoLAddr" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAdapter_LatestTransaction(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[
		{"signature":"sig1","lamports":2000000000,"confirmations":1,"blockTime":1700000000},
		{"signature":"sig0","lamports":5,"confirmations":30,"blockTime":1690000000}
	]`)

	a := NewAdapter(rpc.NewClient(rpc.NewHTTPProvider("solscan", srv.URL, time.Second), rpc.NoRetry), "key")
	tx, err := a.LatestTransaction(context.Background(), "SoLAddr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx == nil {
		t.Fatal("expected transaction")
	}
	if tx.Signature != "sig1" || tx.Confirmations != 1 || tx.BlockTime != 1700000000 {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if tx.Lamports.String() != "2000000000" {
		t.Errorf("unexpected lamports %s", tx.Lamports)
	}
}

func TestAdapter_NoTransactions(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`)

	a := NewAdapter(rpc.NewClient(rpc.NewHTTPProvider("solscan", srv.URL, time.Second), rpc.NoRetry), "key")
	tx, err := a.LatestTransaction(context.Background(), "SoLAddr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx != nil {
		t.Errorf("expected nil transaction, got %+v", tx)
	}
}

func TestAdapter_ProviderFailure(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":"down"}`)

	a := NewAdapter(rpc.NewClient(rpc.NewHTTPProvider("solscan", srv.URL, time.Second), rpc.NoRetry), "key")
	_, err := a.LatestTransaction(context.Background(), "SoLAddr")
	if !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected provider error, got %v", err)
	}
}
