package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
)

// =============================================================================
// Mocks
// =============================================================================

type stubProvider struct {
	name  string
	stats provider.MonitorStats
}

func (s *stubProvider) GetName() string { return s.name }
func (s *stubProvider) GetHealth() provider.HealthStatus {
	stats := s.stats
	return provider.HealthStatus{Available: true, MonitorStats: &stats}
}
func (s *stubProvider) IsAvailable() bool { return true }
func (s *stubProvider) Execute(ctx context.Context, op provider.Operation) ([]byte, error) {
	return nil, nil
}
func (s *stubProvider) Close() error { return nil }

type stubVerifier struct {
	result *domain.VerificationResult
	err    error
	got    [2]string
}

func (s *stubVerifier) GetPaymentByAddress(ctx context.Context, address, currency string) (*domain.VerificationResult, error) {
	s.got = [2]string{address, currency}
	return s.result, s.err
}

type stubOrders struct {
	p *domain.TrackedPayment
}

func (s *stubOrders) Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error) {
	if s.p == nil || s.p.OrderID != orderID {
		return nil, domain.ErrPaymentNotFound
	}
	return s.p, nil
}

// =============================================================================
// Monitor
// =============================================================================

func TestMonitor_Aggregation(t *testing.T) {
	tests := []struct {
		name     string
		status   provider.ProviderStatus
		storeErr error
		want     SystemStatus
	}{
		{"all healthy", provider.StatusHealthy, nil, StatusHealthy},
		{"throttled provider", provider.StatusThrottled, nil, StatusDegraded},
		{"blocked provider", provider.StatusBlocked, nil, StatusCritical},
		{"store down", provider.StatusHealthy, errors.New("conn refused"), StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(
				[]provider.Provider{&stubProvider{name: "solscan", stats: provider.MonitorStats{Status: tt.status}}},
				map[string]Checker{"tracking": func(ctx context.Context) error { return tt.storeErr }},
			)
			report := m.CheckHealth(context.Background())
			if report.SystemStatus != tt.want {
				t.Errorf("expected %s, got %s", tt.want, report.SystemStatus)
			}
			if _, ok := report.Providers["solscan"]; !ok {
				t.Error("expected provider in report")
			}
		})
	}
}

func TestMonitor_CachesReport(t *testing.T) {
	calls := 0
	m := NewMonitor(nil, map[string]Checker{"tracking": func(ctx context.Context) error {
		calls++
		return nil
	}})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.CheckHealth(context.Background())
	m.CheckHealth(context.Background())
	if calls != 1 {
		t.Errorf("expected cached report, checker ran %d times", calls)
	}

	now = now.Add(11 * time.Second)
	m.CheckHealth(context.Background())
	if calls != 2 {
		t.Errorf("expected refresh after interval, checker ran %d times", calls)
	}
}

// =============================================================================
// Server
// =============================================================================

func newTestServer(v PaymentVerifier, orders OrderLookup, storeErr error) *httptest.Server {
	m := NewMonitor(nil, map[string]Checker{"tracking": func(ctx context.Context) error { return storeErr }})
	return httptest.NewServer(NewServer(m, v, orders, 0).Handler())
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(&stubVerifier{}, nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	down := newTestServer(&stubVerifier{}, nil, errors.New("down"))
	defer down.Close()
	resp2, err := http.Get(down.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp2.StatusCode)
	}
}

func TestServer_Payment(t *testing.T) {
	amount := decimal.NewFromInt(2)
	v := &stubVerifier{result: &domain.VerificationResult{Verified: true, Status: domain.PaymentStatusCompleted, Amount: &amount}}
	srv := newTestServer(v, nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/payments/sol/SoLAddr")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if v.got != [2]string{"SoLAddr", "sol"} {
		t.Errorf("unexpected args %v", v.got)
	}

	var body domain.VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Verified || body.Amount == nil || !body.Amount.Equal(amount) {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestServer_PaymentErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.UnsupportedCurrencyError("XYZ"), http.StatusBadRequest},
		{domain.ErrVerificationNotImplemented, http.StatusNotImplemented},
		{&domain.ProviderError{Provider: "p", Operation: "o", Err: errors.New("x")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		srv := newTestServer(&stubVerifier{err: tt.err}, nil, nil)
		resp, err := http.Get(srv.URL + "/v1/payments/xyz/addr")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		srv.Close()

		if resp.StatusCode != tt.code {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.code, resp.StatusCode)
		}
	}
}

func TestServer_Orders(t *testing.T) {
	orders := &stubOrders{p: &domain.TrackedPayment{OrderID: "o1", State: domain.PaymentStateConfirmed}}
	srv := newTestServer(&stubVerifier{}, orders, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/orders/o1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var p domain.TrackedPayment
	json.NewDecoder(resp.Body).Decode(&p)
	if resp.StatusCode != http.StatusOK || p.State != domain.PaymentStateConfirmed {
		t.Errorf("unexpected response %d %+v", resp.StatusCode, p)
	}

	resp2, err := http.Get(srv.URL + "/v1/orders/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp2.StatusCode)
	}

	disabled := newTestServer(&stubVerifier{}, nil, nil)
	defer disabled.Close()
	resp3, err := http.Get(disabled.URL + "/v1/orders/o1")
	if err != nil {
		t.Fatal(err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotImplemented {
		t.Errorf("expected 501 when tracking disabled, got %d", resp3.StatusCode)
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(&stubVerifier{}, nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
