package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCurrency is returned when a currency has no chain configuration.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrProvider is matched by every explorer transport or API failure.
	ErrProvider = errors.New("provider error")

	// ErrVerificationNotImplemented is returned when a configured currency has no strategy.
	ErrVerificationNotImplemented = errors.New("verification not implemented")

	// ErrWebhookNotSupported is returned when webhooks are requested for a polled chain.
	ErrWebhookNotSupported = errors.New("webhooks not supported for currency")

	// ErrInvalidArgument is returned for empty addresses, order ids and similar input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPaymentNotFound is returned when no tracked payment exists for an order.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidTransition is returned when a payment state change is not allowed.
	ErrInvalidTransition = errors.New("invalid payment state transition")
)

// UnsupportedCurrencyError wraps ErrUnsupportedCurrency with the offending code.
func UnsupportedCurrencyError(code string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
}

// ProviderError describes a failed exchange with an explorer API.
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: %s: http %d: %v", e.Provider, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes every ProviderError match ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
