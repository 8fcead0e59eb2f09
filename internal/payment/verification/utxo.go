package verification

import (
	"context"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
)

// AwaitingWebhookMessage is reported for every utxo-class verification.
const AwaitingWebhookMessage = "awaiting webhook notification"

// UTXOVerifier handles BTC, LTC and DOGE. Confirmation arrives by webhook, so
// the pull-side answer is always pending and no provider call is made.
type UTXOVerifier struct{}

func NewUTXOVerifier() *UTXOVerifier { return &UTXOVerifier{} }

func (v *UTXOVerifier) Class() domain.ChainClass { return domain.ChainClassUTXO }

func (v *UTXOVerifier) Verify(
	ctx context.Context,
	currency domain.Currency,
	address string,
	cfg registry.ChainConfig,
) (*domain.VerificationResult, error) {
	return domain.Pending(AwaitingWebhookMessage), nil
}

func (v *UTXOVerifier) verifier() {}
