// Package registry holds the immutable per-currency chain configuration.
package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/vietddude/paywatch/internal/core/domain"
)

// ChainConfig holds explorer settings for a single currency.
// TokenContract applies to token-ledger chains only. WebhookURL overrides the
// hooks endpoint (default APIURL + "/hooks") and applies to utxo chains only.
type ChainConfig struct {
	Class            domain.ChainClass `yaml:"class"             validate:"required"`
	APIURL           string            `yaml:"api_url"           validate:"required,url"`
	APIKey           string            `yaml:"api_key"`
	ExplorerURL      string            `yaml:"explorer_url"      validate:"required"`
	Decimals         int32             `yaml:"decimals"          validate:"gte=0,lte=36"`
	MinConfirmations int               `yaml:"min_confirmations" validate:"gte=1"`
	TokenContract    string            `yaml:"token_contract"`
	WebhookURL       string            `yaml:"webhook_url"       validate:"omitempty,url"`
}

// HooksURL returns the webhook endpoint for this chain.
func (c ChainConfig) HooksURL() string {
	if c.WebhookURL != "" {
		return c.WebhookURL
	}
	return c.APIURL + "/hooks"
}

// ExplorerLink appends a transaction hash to the explorer template.
func (c ChainConfig) ExplorerLink(txHash string) string {
	return c.ExplorerURL + txHash
}

// Registry maps currency codes to chain configuration. It is read-only after New.
type Registry struct {
	chains map[domain.Currency]ChainConfig
}

var validate = validator.New()

// New validates every entry and builds a registry keyed by normalized code.
// A missing class is taken from domain.DefaultClass.
func New(chains map[string]ChainConfig) (*Registry, error) {
	r := &Registry{chains: make(map[domain.Currency]ChainConfig, len(chains))}

	for code, cfg := range chains {
		c := domain.NormalizeCurrency(code)
		if c == "" {
			return nil, fmt.Errorf("empty currency code in chain config")
		}
		if _, dup := r.chains[c]; dup {
			return nil, fmt.Errorf("duplicate chain config for %s", c)
		}
		if cfg.Class == "" {
			class, ok := domain.DefaultClass[c]
			if !ok && c.Known() {
				return nil, fmt.Errorf("chain %s: %w: no chain class for this currency", c, domain.ErrVerificationNotImplemented)
			}
			cfg.Class = class
		}
		if !cfg.Class.Valid() {
			return nil, fmt.Errorf("chain %s: unknown class %q", c, cfg.Class)
		}
		if err := validate.Struct(cfg); err != nil {
			return nil, fmt.Errorf("chain %s: invalid config: %w", c, err)
		}
		if cfg.Class == domain.ChainClassTokenLedger && cfg.TokenContract == "" {
			return nil, fmt.Errorf("chain %s: token_contract is required for token_ledger", c)
		}
		r.chains[c] = cfg
	}

	return r, nil
}

// Lookup returns the configuration for a currency code (case-insensitive).
func (r *Registry) Lookup(code string) (ChainConfig, error) {
	cfg, ok := r.chains[domain.NormalizeCurrency(code)]
	if !ok {
		return ChainConfig{}, domain.UnsupportedCurrencyError(code)
	}
	return cfg, nil
}

// Codes returns the configured currency codes in sorted order.
func (r *Registry) Codes() []domain.Currency {
	codes := make([]domain.Currency, 0, len(r.chains))
	for c := range r.chains {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Defaults returns the built-in BlockCypher, Solscan and TronGrid configuration.
// Credentials are read from BLOCKCYPHER_API_TOKEN, SOLSCAN_API_KEY and TRONGRID_API_KEY.
func Defaults() map[string]ChainConfig {
	blockcypher := os.Getenv("BLOCKCYPHER_API_TOKEN")

	return map[string]ChainConfig{
		"BTC": {
			Class:            domain.ChainClassUTXO,
			APIURL:           "https://api.blockcypher.com/v1/btc/main",
			APIKey:           blockcypher,
			ExplorerURL:      "https://www.blockchain.com/btc/tx/",
			Decimals:         8,
			MinConfirmations: 2,
		},
		"LTC": {
			Class:            domain.ChainClassUTXO,
			APIURL:           "https://api.blockcypher.com/v1/ltc/main",
			APIKey:           blockcypher,
			ExplorerURL:      "https://blockchair.com/litecoin/transaction/",
			Decimals:         8,
			MinConfirmations: 6,
		},
		"DOGE": {
			Class:            domain.ChainClassUTXO,
			APIURL:           "https://api.blockcypher.com/v1/doge/main",
			APIKey:           blockcypher,
			ExplorerURL:      "https://dogechain.info/tx/",
			Decimals:         8,
			MinConfirmations: 6,
		},
		"SOL": {
			Class:            domain.ChainClassAccount,
			APIURL:           "https://api.solscan.io",
			APIKey:           os.Getenv("SOLSCAN_API_KEY"),
			ExplorerURL:      "https://solscan.io/tx/",
			Decimals:         9,
			MinConfirmations: 1,
		},
		"USDT": {
			Class:            domain.ChainClassTokenLedger,
			APIURL:           "https://api.trongrid.io",
			APIKey:           os.Getenv("TRONGRID_API_KEY"),
			ExplorerURL:      "https://tronscan.org/#/transaction/",
			Decimals:         6,
			MinConfirmations: 19,
			TokenContract:    "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
		},
	}
}
