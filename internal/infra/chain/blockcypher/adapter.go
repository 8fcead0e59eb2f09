package blockcypher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/infra/chain"
	"github.com/vietddude/paywatch/internal/infra/rpc"
)

// HookRequest is the subscription body sent to BlockCypher.
type HookRequest struct {
	Events  []domain.EventKind `json:"events"`
	Address string             `json:"address"`
	URL     string             `json:"url"`
	Token   string             `json:"token"`
}

// hookResponse is a hook as returned by BlockCypher. Single-event hooks
// carry "event", multi-event hooks carry "events".
type hookResponse struct {
	ID      string   `json:"id"`
	Event   string   `json:"event"`
	Events  []string `json:"events"`
	Address string   `json:"address"`
	URL     string   `json:"url"`
}

func (h hookResponse) toHook() chain.Hook {
	events := h.Events
	if len(events) == 0 && h.Event != "" {
		events = []string{h.Event}
	}
	return chain.Hook{ID: h.ID, Address: h.Address, Events: events, URL: h.URL}
}

// Adapter implements chain.WebhookAdapter for BlockCypher (BTC, LTC, DOGE).
// API docs: https://www.blockcypher.com/dev/bitcoin/#webhooks
type Adapter struct {
	currency domain.Currency
	client   chain.Caller
	hooksURL string
	token    string
	log      *slog.Logger
}

// NewAdapter creates a BlockCypher adapter. hooksURL is the absolute hooks
// endpoint for the chain; token is the BlockCypher API token.
func NewAdapter(currency domain.Currency, client chain.Caller, hooksURL, token string) *Adapter {
	return &Adapter{
		currency: currency,
		client:   client,
		hooksURL: strings.TrimRight(hooksURL, "/"),
		token:    token,
		log:      slog.Default().With("adapter", "blockcypher", "currency", currency),
	}
}

func (a *Adapter) tokenQuery() url.Values {
	q := url.Values{}
	if a.token != "" {
		q.Set("token", a.token)
	}
	return q
}

// CreateHook subscribes to confirmed and unconfirmed transactions for address.
// It returns the provider-issued hook id.
func (a *Adapter) CreateHook(ctx context.Context, address, callbackURL string) (string, error) {
	req := HookRequest{
		Events:  domain.WebhookEvents,
		Address: address,
		URL:     callbackURL,
		Token:   a.token,
	}

	// BlockCypher API: POST /hooks?token=...
	op := rpc.NewPostOperation("create_hook", a.hooksURL, a.tokenQuery(), req)

	var resp hookResponse
	if err := a.client.CallJSON(ctx, op, &resp); err != nil {
		return "", fmt.Errorf("failed to create hook: %w", err)
	}
	if resp.ID == "" {
		return "", &domain.ProviderError{
			Provider:  "blockcypher",
			Operation: "create_hook",
			Err:       fmt.Errorf("response missing hook id"),
		}
	}

	a.log.Debug("hook created", "id", resp.ID, "address", address)
	return resp.ID, nil
}

// ListHooks returns every hook registered for the token.
func (a *Adapter) ListHooks(ctx context.Context) ([]chain.Hook, error) {
	// BlockCypher API: GET /hooks?token=...
	op := rpc.NewGetOperation("list_hooks", a.hooksURL, a.tokenQuery())

	var resp []hookResponse
	if err := a.client.CallJSON(ctx, op, &resp); err != nil {
		return nil, fmt.Errorf("failed to list hooks: %w", err)
	}

	hooks := make([]chain.Hook, 0, len(resp))
	for _, h := range resp {
		hooks = append(hooks, h.toHook())
	}
	return hooks, nil
}

// DeleteHook removes a hook by id.
func (a *Adapter) DeleteHook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty hook id", domain.ErrInvalidArgument)
	}

	// BlockCypher API: DELETE /hooks/{id}?token=...
	op := rpc.NewDeleteOperation("delete_hook", a.hooksURL+"/"+url.PathEscape(id), a.tokenQuery())
	if err := a.client.CallJSON(ctx, op, nil); err != nil {
		return fmt.Errorf("failed to delete hook %s: %w", id, err)
	}
	return nil
}
