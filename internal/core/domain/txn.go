package domain

import "github.com/shopspring/decimal"

// PaymentStatus is the coarse state reported to callers.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// VerificationResult is the normalized answer to "has this address been paid".
// Verified is true iff Status is PaymentStatusCompleted.
type VerificationResult struct {
	Verified      bool             `json:"verified"`
	Status        PaymentStatus    `json:"status"`
	Message       string           `json:"message,omitempty"`
	TxHash        string           `json:"txHash,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Confirmations *int             `json:"confirmations,omitempty"`
	Timestamp     *int64           `json:"timestamp,omitempty"` // ms since epoch
	ExplorerURL   string           `json:"explorerUrl,omitempty"`
}

// Pending returns an unverified result with an optional message.
func Pending(message string) *VerificationResult {
	return &VerificationResult{
		Verified: false,
		Status:   PaymentStatusPending,
		Message:  message,
	}
}

// SetVerified sets Verified and the matching Status together.
func (r *VerificationResult) SetVerified(verified bool) {
	r.Verified = verified
	if verified {
		r.Status = PaymentStatusCompleted
	} else {
		r.Status = PaymentStatusPending
	}
}

// ScaleAmount converts a raw chain amount (smallest units) to human units.
func ScaleAmount(raw decimal.Decimal, decimals int32) decimal.Decimal {
	return raw.Shift(-decimals)
}
