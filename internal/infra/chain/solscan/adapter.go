package solscan

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/vietddude/paywatch/internal/infra/chain"
	"github.com/vietddude/paywatch/internal/infra/rpc"
)

// Transaction is an account transaction as returned by Solscan.
type Transaction struct {
	Signature     string          `json:"signature"`
	Lamports      decimal.Decimal `json:"lamports"`
	Confirmations int             `json:"confirmations"`
	BlockTime     int64           `json:"blockTime"` // seconds
}

// Adapter queries Solscan for account transactions.
// API docs: https://pro-api.solscan.io/pro-api-docs
type Adapter struct {
	client chain.Caller
	apiKey string
}

// NewAdapter creates a Solscan adapter.
func NewAdapter(client chain.Caller, apiKey string) *Adapter {
	return &Adapter{client: client, apiKey: apiKey}
}

// LatestTransaction returns the most recent transaction for address, or nil
// when the account has none.
func (a *Adapter) LatestTransaction(ctx context.Context, address string) (*Transaction, error) {
	q := url.Values{}
	q.Set("account", address)

	// Solscan API: GET /account/transactions?account=...
	op := rpc.NewGetOperation("account_transactions", "/account/transactions", q)
	if a.apiKey != "" {
		op = rpc.WithHeader(op, "Authorization", "Bearer "+a.apiKey)
	}

	var txs []Transaction
	if err := a.client.CallJSON(ctx, op, &txs); err != nil {
		return nil, fmt.Errorf("failed to get account transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, nil
	}
	return &txs[0], nil
}
