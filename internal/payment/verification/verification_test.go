package verification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/infra/chain/solscan"
	"github.com/vietddude/paywatch/internal/infra/chain/tron"
)

// =============================================================================
// Mocks
// =============================================================================

type mockTxSource struct {
	tx    *solscan.Transaction
	err   error
	calls int
}

func (m *mockTxSource) LatestTransaction(ctx context.Context, address string) (*solscan.Transaction, error) {
	m.calls++
	return m.tx, m.err
}

type mockTransferSource struct {
	tr    *tron.TRC20Transfer
	err   error
	calls int
}

func (m *mockTransferSource) LatestTRC20Transfer(ctx context.Context, address string) (*tron.TRC20Transfer, error) {
	m.calls++
	return m.tr, m.err
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(registry.Defaults())
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}
	return r
}

func newDispatcher(t *testing.T, sol *mockTxSource, usdt *mockTransferSource) *Dispatcher {
	t.Helper()
	return NewDispatcher(
		newRegistry(t),
		NewUTXOVerifier(),
		NewAccountVerifier(map[domain.Currency]TransactionSource{domain.CurrencySOL: sol}),
		NewTokenLedgerVerifier(map[domain.Currency]TransferSource{domain.CurrencyUSDT: usdt}),
	)
}

// =============================================================================
// Dispatch
// =============================================================================

func TestDispatcher_EveryClassHasStrategy(t *testing.T) {
	d := newDispatcher(t, &mockTxSource{}, &mockTransferSource{})
	for _, c := range domain.ChainClasses {
		if _, ok := d.verifiers[c]; !ok {
			t.Errorf("chain class %s has no verifier", c)
		}
	}
	if len(d.Classes()) != len(domain.ChainClasses) {
		t.Errorf("expected %d classes, got %v", len(domain.ChainClasses), d.Classes())
	}
}

func TestDispatcher_UnsupportedCurrency(t *testing.T) {
	d := newDispatcher(t, &mockTxSource{}, &mockTransferSource{})
	for _, code := range []string{"xyz", "TRX", "XMR"} {
		_, err := d.GetPaymentByAddress(context.Background(), "addr", code)
		if !errors.Is(err, domain.ErrUnsupportedCurrency) {
			t.Errorf("%s: expected ErrUnsupportedCurrency, got %v", code, err)
		}
	}
}

func TestDispatcher_NotImplementedClass(t *testing.T) {
	// Token-ledger currency configured but no token strategy registered.
	d := NewDispatcher(newRegistry(t), NewUTXOVerifier())
	_, err := d.GetPaymentByAddress(context.Background(), "TAddr", "USDT")
	if !errors.Is(err, domain.ErrVerificationNotImplemented) {
		t.Errorf("expected ErrVerificationNotImplemented, got %v", err)
	}
}

func TestDispatcher_ConfiguredCurrencyWithoutSource(t *testing.T) {
	chains := registry.Defaults()
	chains["TRX"] = registry.ChainConfig{
		Class:            domain.ChainClassAccount,
		APIURL:           "https://api.trongrid.io",
		ExplorerURL:      "https://tronscan.org/#/transaction/",
		Decimals:         6,
		MinConfirmations: 19,
	}
	reg, err := registry.New(chains)
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}

	d := NewDispatcher(reg, NewAccountVerifier(map[domain.Currency]TransactionSource{}))
	_, err = d.GetPaymentByAddress(context.Background(), "addr", "trx")
	if !errors.Is(err, domain.ErrVerificationNotImplemented) {
		t.Errorf("expected ErrVerificationNotImplemented, got %v", err)
	}
}

func TestDispatcher_EmptyAddress(t *testing.T) {
	d := newDispatcher(t, &mockTxSource{}, &mockTransferSource{})
	if _, err := d.GetPaymentByAddress(context.Background(), "", "SOL"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

// =============================================================================
// UTXO
// =============================================================================

func TestUTXO_AlwaysPendingWithoutNetwork(t *testing.T) {
	sol := &mockTxSource{}
	usdt := &mockTransferSource{}
	d := newDispatcher(t, sol, usdt)

	for _, code := range []string{"BTC", "ltc", "Doge"} {
		res, err := d.GetPaymentByAddress(context.Background(), "addr", code)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", code, err)
		}
		if res.Verified || res.Status != domain.PaymentStatusPending || res.Message != AwaitingWebhookMessage {
			t.Errorf("%s: unexpected result %+v", code, res)
		}
	}
	if sol.calls != 0 || usdt.calls != 0 {
		t.Error("utxo verification must not call any provider")
	}
}

// =============================================================================
// Account (SOL)
// =============================================================================

func TestAccount_SOLScenario(t *testing.T) {
	sol := &mockTxSource{tx: &solscan.Transaction{
		Signature:     "5sig",
		Lamports:      decimal.NewFromInt(2_000_000_000),
		Confirmations: 1,
		BlockTime:     1_700_000_000,
	}}
	d := newDispatcher(t, sol, &mockTransferSource{})

	res, err := d.GetPaymentByAddress(context.Background(), "SoLAddr", "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verified || res.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected verified/completed, got %+v", res)
	}
	if res.Amount == nil || !res.Amount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected amount 2, got %v", res.Amount)
	}
	if res.Timestamp == nil || *res.Timestamp != 1_700_000_000_000 {
		t.Errorf("expected timestamp in ms, got %v", res.Timestamp)
	}
	if res.ExplorerURL != "https://solscan.io/tx/5sig" || res.TxHash != "5sig" {
		t.Errorf("unexpected evidence %q %q", res.ExplorerURL, res.TxHash)
	}
	if res.Confirmations == nil || *res.Confirmations != 1 {
		t.Errorf("expected 1 confirmation, got %v", res.Confirmations)
	}
}

func TestAccount_VerifiedIffConfirmationsReachMinimum(t *testing.T) {
	reg := newRegistry(t)
	cfg, _ := reg.Lookup("SOL")
	cfg.MinConfirmations = 5

	for _, confs := range []int{0, 4, 5, 6, 100} {
		src := &mockTxSource{tx: &solscan.Transaction{Signature: "s", Lamports: decimal.NewFromInt(1), Confirmations: confs}}
		v := NewAccountVerifier(map[domain.Currency]TransactionSource{domain.CurrencySOL: src})

		res, err := v.Verify(context.Background(), domain.CurrencySOL, "a", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := confs >= 5
		if res.Verified != want {
			t.Errorf("confirmations %d: verified = %t, want %t", confs, res.Verified, want)
		}
		if (res.Status == domain.PaymentStatusCompleted) != res.Verified {
			t.Errorf("confirmations %d: status %s inconsistent with verified %t", confs, res.Status, res.Verified)
		}
	}
}

func TestAccount_AmountIsExact(t *testing.T) {
	reg := newRegistry(t)
	cfg, _ := reg.Lookup("SOL")

	for _, raw := range []string{"0", "1", "123456789", "999999999999999999", "18446744073709551615"} {
		lamports, _ := decimal.NewFromString(raw)
		src := &mockTxSource{tx: &solscan.Transaction{Signature: "s", Lamports: lamports, Confirmations: 1}}
		v := NewAccountVerifier(map[domain.Currency]TransactionSource{domain.CurrencySOL: src})

		res, err := v.Verify(context.Background(), domain.CurrencySOL, "a", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Amount.Mul(decimal.New(1, 9)).Equal(lamports) {
			t.Errorf("raw %s: amount %s is not raw / 10^9", raw, res.Amount)
		}
	}
}

func TestAccount_NoTransactions(t *testing.T) {
	d := newDispatcher(t, &mockTxSource{}, &mockTransferSource{})
	res, err := d.GetPaymentByAddress(context.Background(), "SoLAddr", "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verified || res.Status != domain.PaymentStatusPending || res.TxHash != "" || res.Amount != nil {
		t.Errorf("expected bare pending, got %+v", res)
	}
}

func TestAccount_ProviderError(t *testing.T) {
	src := &mockTxSource{err: &domain.ProviderError{Provider: "solscan", Operation: "account_transactions", StatusCode: 500, Err: errors.New("down")}}
	d := newDispatcher(t, src, &mockTransferSource{})

	_, err := d.GetPaymentByAddress(context.Background(), "SoLAddr", "SOL")
	if !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

// =============================================================================
// Token ledger (USDT)
// =============================================================================

func TestToken_EmptyIsBarePending(t *testing.T) {
	d := newDispatcher(t, &mockTxSource{}, &mockTransferSource{})

	res, err := d.GetPaymentByAddress(context.Background(), "TAddr", "USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"verified":false,"status":"pending"}` {
		t.Errorf("expected no other fields, got %s", data)
	}
}

func TestToken_ConfirmedTransfer(t *testing.T) {
	usdt := &mockTransferSource{tr: &tron.TRC20Transfer{
		TransactionID:  "txid",
		Value:          "15250000",
		Confirmed:      true,
		BlockTimestamp: 1_700_000_000_123,
	}}
	d := newDispatcher(t, &mockTxSource{}, usdt)

	res, err := d.GetPaymentByAddress(context.Background(), "TAddr", "USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verified || res.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected verified, got %+v", res)
	}
	if !res.Amount.Equal(decimal.RequireFromString("15.25")) {
		t.Errorf("expected 15.25, got %s", res.Amount)
	}
	if *res.Confirmations != 19 {
		t.Errorf("expected min confirmations 19, got %d", *res.Confirmations)
	}
	if *res.Timestamp != 1_700_000_000_123 {
		t.Errorf("timestamp must be passed through, got %d", *res.Timestamp)
	}
	if !strings.HasSuffix(res.ExplorerURL, "txid") {
		t.Errorf("unexpected explorer url %s", res.ExplorerURL)
	}
}

func TestToken_UnconfirmedIsPending(t *testing.T) {
	usdt := &mockTransferSource{tr: &tron.TRC20Transfer{TransactionID: "t", Value: "0", Confirmed: false}}
	d := newDispatcher(t, &mockTxSource{}, usdt)

	res, err := d.GetPaymentByAddress(context.Background(), "TAddr", "USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verified || res.Status != domain.PaymentStatusPending {
		t.Errorf("unconfirmed transfer must stay pending, got %+v", res)
	}
	if *res.Confirmations != 0 {
		t.Errorf("expected 0 confirmations, got %d", *res.Confirmations)
	}
}

func TestToken_InvalidValue(t *testing.T) {
	for _, v := range []string{"-5", "NaN?"} {
		usdt := &mockTransferSource{tr: &tron.TRC20Transfer{TransactionID: "t", Value: v, Confirmed: true}}
		d := newDispatcher(t, &mockTxSource{}, usdt)

		if _, err := d.GetPaymentByAddress(context.Background(), "TAddr", "USDT"); !errors.Is(err, domain.ErrProvider) {
			t.Errorf("value %q: expected ErrProvider, got %v", v, err)
		}
	}
}

func TestToken_AmountIsExact(t *testing.T) {
	reg := newRegistry(t)
	cfg, _ := reg.Lookup("USDT")

	for _, raw := range []string{"0", "1", "1000000", "123456789012345678901234567890"} {
		src := &mockTransferSource{tr: &tron.TRC20Transfer{TransactionID: "t", Value: raw, Confirmed: true}}
		v := NewTokenLedgerVerifier(map[domain.Currency]TransferSource{domain.CurrencyUSDT: src})

		res, err := v.Verify(context.Background(), domain.CurrencyUSDT, "a", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Amount.Shift(6).Equal(decimal.RequireFromString(raw)) {
			t.Errorf("raw %s: amount %s is not raw / 10^6", raw, res.Amount)
		}
	}
}
