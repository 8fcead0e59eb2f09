package domain

import "time"

// PaymentState is the per-order confirmation state for webhook-driven chains.
type PaymentState string

const (
	PaymentStateAwaitingConfirmation PaymentState = "awaiting_confirmation"
	PaymentStateConfirmed            PaymentState = "confirmed"
)

// CanTransition reports whether moving from s to next is allowed.
// Confirmed is terminal; re-confirming is treated as a no-op by callers.
func (s PaymentState) CanTransition(next PaymentState) bool {
	switch s {
	case PaymentStateAwaitingConfirmation:
		return next == PaymentStateConfirmed
	case PaymentStateConfirmed:
		return next == PaymentStateConfirmed
	}
	return false
}

// TrackedPayment is the confirmation record for one order's payment address.
type TrackedPayment struct {
	OrderID       string       `json:"order_id"       db:"order_id"`
	Currency      Currency     `json:"currency"       db:"currency"`
	Address       string       `json:"address"        db:"address"`
	WebhookID     string       `json:"webhook_id"     db:"webhook_id"`
	State         PaymentState `json:"state"          db:"state"`
	TxHash        string       `json:"tx_hash"        db:"tx_hash"`
	Confirmations int          `json:"confirmations"  db:"confirmations"`
	CreatedAt     time.Time    `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"     db:"updated_at"`
	ConfirmedAt   *time.Time   `json:"confirmed_at"   db:"confirmed_at"`
}

// Confirmation carries the evidence delivered by the webhook callback.
type Confirmation struct {
	TxHash        string
	Confirmations int
}
