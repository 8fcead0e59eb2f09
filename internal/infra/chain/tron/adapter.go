package tron

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/chain"
	"github.com/vietddude/paywatch/internal/infra/rpc"
)

// ProviderName identifies TronGrid in provider errors.
const ProviderName = "trongrid"

// TRC20Transfer is a token transfer as returned by TronGrid.
type TRC20Transfer struct {
	TransactionID  string `json:"transaction_id"`
	Value          string `json:"value"`
	Confirmed      bool   `json:"confirmed"`
	BlockTimestamp int64  `json:"block_timestamp"` // ms
}

// RawValue parses the transfer value in the token's smallest unit.
// Negative or malformed values are provider errors.
func (t TRC20Transfer) RawValue() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(t.Value)
	if err != nil {
		return decimal.Zero, &domain.ProviderError{
			Provider:  ProviderName,
			Operation: "trc20_transactions",
			Err:       fmt.Errorf("invalid transfer value %q: %w", t.Value, err),
		}
	}
	if v.IsNegative() {
		return decimal.Zero, &domain.ProviderError{
			Provider:  ProviderName,
			Operation: "trc20_transactions",
			Err:       fmt.Errorf("negative transfer value %q", t.Value),
		}
	}
	return v, nil
}

type trc20Response struct {
	Data    []TRC20Transfer `json:"data"`
	Success bool            `json:"success"`
}

// TronAdapter queries TronGrid's v1 REST API.
// API docs: https://developers.tron.network/reference
type TronAdapter struct {
	client   chain.Caller
	apiKey   string
	contract string
}

// NewTronAdapter creates a TronGrid adapter for a TRC20 token contract.
func NewTronAdapter(client chain.Caller, apiKey, contract string) *TronAdapter {
	return &TronAdapter{client: client, apiKey: apiKey, contract: contract}
}

// LatestTRC20Transfer returns the most recent confirmed transfer of the
// configured token involving address, or nil when there is none.
func (a *TronAdapter) LatestTRC20Transfer(ctx context.Context, address string) (*TRC20Transfer, error) {
	q := url.Values{}
	q.Set("contract_address", a.contract)
	q.Set("only_confirmed", "true")
	q.Set("limit", "1")

	// TronGrid API: GET /v1/accounts/{address}/transactions/trc20
	path := "/v1/accounts/" + url.PathEscape(address) + "/transactions/trc20"
	op := rpc.NewGetOperation("trc20_transactions", path, q)
	if a.apiKey != "" {
		op = rpc.WithHeader(op, "TRON-PRO-API-KEY", a.apiKey)
	}

	var resp trc20Response
	if err := a.client.CallJSON(ctx, op, &resp); err != nil {
		return nil, fmt.Errorf("failed to get trc20 transactions: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}
