package verification

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/infra/chain/solscan"
)

// TransactionSource returns the latest transaction of an account, or nil.
// *solscan.Adapter implements it.
type TransactionSource interface {
	LatestTransaction(ctx context.Context, address string) (*solscan.Transaction, error)
}

// AccountVerifier polls account chains (SOL) for the latest address transaction.
type AccountVerifier struct {
	sources map[domain.Currency]TransactionSource
}

// NewAccountVerifier creates a verifier with one source per account-class currency.
func NewAccountVerifier(sources map[domain.Currency]TransactionSource) *AccountVerifier {
	return &AccountVerifier{sources: sources}
}

func (v *AccountVerifier) Class() domain.ChainClass { return domain.ChainClassAccount }

func (v *AccountVerifier) Verify(
	ctx context.Context,
	currency domain.Currency,
	address string,
	cfg registry.ChainConfig,
) (*domain.VerificationResult, error) {
	src, ok := v.sources[currency]
	if !ok {
		return nil, fmt.Errorf("%w: no account source for %s", domain.ErrVerificationNotImplemented, currency)
	}

	tx, err := src.LatestTransaction(ctx, address)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return domain.Pending(""), nil
	}

	confirmations := tx.Confirmations
	timestamp := tx.BlockTime * 1000
	amount := domain.ScaleAmount(tx.Lamports, cfg.Decimals)
	if amount.LessThan(decimal.Zero) {
		return nil, &domain.ProviderError{
			Provider:  "solscan",
			Operation: "account_transactions",
			Err:       fmt.Errorf("negative lamports %s", tx.Lamports),
		}
	}

	result := &domain.VerificationResult{
		TxHash:        tx.Signature,
		Amount:        &amount,
		Confirmations: &confirmations,
		Timestamp:     &timestamp,
		ExplorerURL:   cfg.ExplorerLink(tx.Signature),
	}
	result.SetVerified(confirmations >= cfg.MinConfirmations)
	return result, nil
}

func (v *AccountVerifier) verifier() {}
