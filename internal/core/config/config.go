package config

import (
	"time"

	"github.com/vietddude/paywatch/internal/core/registry"
	redisclient "github.com/vietddude/paywatch/internal/infra/redis"
	"github.com/vietddude/paywatch/internal/infra/rpc/routing"
	"github.com/vietddude/paywatch/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig                    `yaml:"server"`
	Logging  LoggingConfig                   `yaml:"logging"`
	Callback CallbackConfig                  `yaml:"callback"`
	HTTP     HTTPConfig                      `yaml:"http"`
	Retry    RetryConfig                     `yaml:"retry"`
	Tracking TrackingConfig                  `yaml:"tracking"`
	Chains   map[string]registry.ChainConfig `yaml:"chains"`
	Redis    redisclient.Config              `yaml:"redis"`
	Database postgres.Config                 `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// CallbackConfig holds the public URL providers deliver webhooks to.
// The order id is appended as the orderId query parameter.
type CallbackConfig struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// HTTPConfig holds outbound explorer client settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig controls retries of explorer calls. MaxAttempts 1 disables retry.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"     validate:"gte=0"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	BackoffMultiple float64       `yaml:"backoff_multiple" validate:"gte=0"`
}

// TrackingConfig selects where payment confirmation state is kept.
// Confirmed payments older than Retention are pruned; zero keeps them forever.
type TrackingConfig struct {
	Backend   string        `yaml:"backend"   validate:"omitempty,oneof=memory redis postgres"`
	Retention time.Duration `yaml:"retention" validate:"gte=0"`
}

// Routing converts the retry section into the rpc routing policy.
func (r RetryConfig) Routing() routing.RetryConfig {
	return routing.RetryConfig{
		MaxAttempts:     r.MaxAttempts,
		InitialDelay:    r.InitialDelay,
		MaxDelay:        r.MaxDelay,
		BackoffMultiple: r.BackoffMultiple,
	}
}
