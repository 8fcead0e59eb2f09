package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/payment/metrics"
)

// PaymentVerifier answers verification requests.
// *verification.Dispatcher implements it.
type PaymentVerifier interface {
	GetPaymentByAddress(ctx context.Context, address, currency string) (*domain.VerificationResult, error)
}

// OrderLookup returns the tracked state of an order.
// *tracking.Tracker implements it.
type OrderLookup interface {
	Get(ctx context.Context, orderID string) (*domain.TrackedPayment, error)
}

// Server provides HTTP endpoints for health monitoring and payment lookups.
type Server struct {
	monitor  *Monitor
	verifier PaymentVerifier
	orders   OrderLookup
	server   *http.Server
}

// NewServer creates a new health server. orders may be nil.
func NewServer(monitor *Monitor, verifier PaymentVerifier, orders OrderLookup, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor:  monitor,
		verifier: verifier,
		orders:   orders,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	mux.HandleFunc("GET /health", instrumentHandler("health", s.handleHealth))
	mux.HandleFunc("GET /health/detailed", instrumentHandler("health_detailed", s.handleDetailed))
	mux.HandleFunc("GET /v1/payments/{currency}/{address}", instrumentHandler("payments", s.handlePayment))
	mux.HandleFunc("GET /v1/orders/{orderID}", instrumentHandler("orders", s.handleOrder))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())

	code := http.StatusOK
	if report.SystemStatus == StatusCritical {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": string(report.SystemStatus)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.CheckHealth(r.Context()))
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	result, err := s.verifier.GetPaymentByAddress(r.Context(), r.PathValue("address"), r.PathValue("currency"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if s.orders == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "payment tracking disabled"})
		return
	}
	p, err := s.orders.Get(r.Context(), r.PathValue("orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVerificationNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// instrumentHandler wraps an HTTP handler with Prometheus instrumentation
func instrumentHandler(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(wrapped, r)

		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
