// Package chain holds the explorer adapters for each supported chain family.
package chain

import (
	"context"

	"github.com/vietddude/paywatch/internal/infra/rpc"
)

// Caller is the explorer client used by every adapter.
// *rpc.Client implements it.
type Caller interface {
	CallJSON(ctx context.Context, op rpc.Operation, out any) error
}

// WebhookAdapter manages push subscriptions on explorers that support them.
type WebhookAdapter interface {
	CreateHook(ctx context.Context, address, callbackURL string) (string, error)
	ListHooks(ctx context.Context) ([]Hook, error)
	DeleteHook(ctx context.Context, id string) error
}

// Hook is a provider-side webhook subscription.
type Hook struct {
	ID      string
	Address string
	Events  []string
	URL     string
}
