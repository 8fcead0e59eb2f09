package verification

import (
	"context"
	"fmt"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/infra/chain/tron"
)

// TransferSource returns the latest confirmed token transfer for an address, or nil.
// *tron.TronAdapter implements it.
type TransferSource interface {
	LatestTRC20Transfer(ctx context.Context, address string) (*tron.TRC20Transfer, error)
}

// TokenLedgerVerifier polls token-ledger chains (USDT on TRC20).
// A transfer counts as paid when the provider marks it confirmed.
type TokenLedgerVerifier struct {
	sources map[domain.Currency]TransferSource
}

// NewTokenLedgerVerifier creates a verifier with one source per token currency.
func NewTokenLedgerVerifier(sources map[domain.Currency]TransferSource) *TokenLedgerVerifier {
	return &TokenLedgerVerifier{sources: sources}
}

func (v *TokenLedgerVerifier) Class() domain.ChainClass { return domain.ChainClassTokenLedger }

func (v *TokenLedgerVerifier) Verify(
	ctx context.Context,
	currency domain.Currency,
	address string,
	cfg registry.ChainConfig,
) (*domain.VerificationResult, error) {
	src, ok := v.sources[currency]
	if !ok {
		return nil, fmt.Errorf("%w: no token source for %s", domain.ErrVerificationNotImplemented, currency)
	}

	tr, err := src.LatestTRC20Transfer(ctx, address)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return domain.Pending(""), nil
	}

	raw, err := tr.RawValue()
	if err != nil {
		return nil, err
	}

	amount := domain.ScaleAmount(raw, cfg.Decimals)
	confirmations := 0
	if tr.Confirmed {
		confirmations = cfg.MinConfirmations
	}
	timestamp := tr.BlockTimestamp

	result := &domain.VerificationResult{
		TxHash:        tr.TransactionID,
		Amount:        &amount,
		Confirmations: &confirmations,
		Timestamp:     &timestamp,
		ExplorerURL:   cfg.ExplorerLink(tr.TransactionID),
	}
	result.SetVerified(tr.Confirmed)
	return result, nil
}

func (v *TokenLedgerVerifier) verifier() {}
