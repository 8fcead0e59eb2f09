package domain

import (
	"slices"
	"strings"
)

// Currency is an upper-case currency code such as "BTC" or "USDT".
type Currency string

const (
	CurrencyBTC  Currency = "BTC"
	CurrencyLTC  Currency = "LTC"
	CurrencyDOGE Currency = "DOGE"
	CurrencySOL  Currency = "SOL"
	CurrencyUSDT Currency = "USDT"

	// Recognized by name only. No default chain configuration exists for these.
	CurrencyTRX Currency = "TRX"
	CurrencyXMR Currency = "XMR"
)

// KnownCurrencies lists every currency code the service recognizes by name.
var KnownCurrencies = []Currency{
	CurrencyBTC,
	CurrencyLTC,
	CurrencyDOGE,
	CurrencySOL,
	CurrencyUSDT,
	CurrencyTRX,
	CurrencyXMR,
}

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

func (c Currency) String() string {
	return string(c)
}

// Known reports whether c is one of KnownCurrencies.
func (c Currency) Known() bool {
	return slices.Contains(KnownCurrencies, c)
}

// ChainClass groups currencies by how their payments are verified.
type ChainClass string

const (
	// ChainClassUTXO chains confirm payments through provider webhooks.
	ChainClassUTXO ChainClass = "utxo"
	// ChainClassAccount chains are polled for the latest address transaction.
	ChainClassAccount ChainClass = "account"
	// ChainClassTokenLedger chains are polled for the latest token transfer.
	ChainClassTokenLedger ChainClass = "token_ledger"
)

// ChainClasses is the closed set of chain classes.
var ChainClasses = []ChainClass{
	ChainClassUTXO,
	ChainClassAccount,
	ChainClassTokenLedger,
}

// Valid reports whether c is one of ChainClasses.
func (c ChainClass) Valid() bool {
	switch c {
	case ChainClassUTXO, ChainClassAccount, ChainClassTokenLedger:
		return true
	}
	return false
}

// DefaultClass maps the built-in currencies to their chain class. It fills in
// the class when a chain config omits it.
var DefaultClass = map[Currency]ChainClass{
	CurrencyBTC:  ChainClassUTXO,
	CurrencyLTC:  ChainClassUTXO,
	CurrencyDOGE: ChainClassUTXO,
	CurrencySOL:  ChainClassAccount,
	CurrencyUSDT: ChainClassTokenLedger,
}
