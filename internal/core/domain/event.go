package domain

// EventKind is a provider webhook event name.
type EventKind string

const (
	EventTxConfirmation EventKind = "tx-confirmation"
	EventUnconfirmedTx  EventKind = "unconfirmed-tx"
)

// WebhookEvents is the event set requested for every payment address.
var WebhookEvents = []EventKind{EventTxConfirmation, EventUnconfirmedTx}

// WebhookSubscription is a push subscription as reported by the provider.
// The provider owns its lifecycle; it is never persisted locally.
type WebhookSubscription struct {
	ID       string      `json:"id"`
	Currency Currency    `json:"currency"`
	Address  string      `json:"address"`
	Events   []EventKind `json:"events"`
	URL      string      `json:"url"`
}

// Registration ties an order to the subscription created for it.
type Registration struct {
	OrderID     string   `json:"orderId"`
	WebhookID   string   `json:"webhookId"`
	Currency    Currency `json:"currency"`
	Address     string   `json:"address"`
	CallbackURL string   `json:"callbackUrl"`
}
