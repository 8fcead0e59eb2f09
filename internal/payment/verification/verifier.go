// Package verification answers "has this address been paid" per chain class.
package verification

import (
	"context"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
)

// Verifier is a verification strategy for one chain class.
// The unexported method keeps the set of strategies closed to this package.
type Verifier interface {
	Class() domain.ChainClass
	Verify(ctx context.Context, currency domain.Currency, address string, cfg registry.ChainConfig) (*domain.VerificationResult, error)

	verifier()
}
