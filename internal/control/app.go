package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vietddude/paywatch/internal/core/config"
	"github.com/vietddude/paywatch/internal/core/domain"
	"github.com/vietddude/paywatch/internal/core/registry"
	"github.com/vietddude/paywatch/internal/core/worker"
	"github.com/vietddude/paywatch/internal/infra/chain"
	"github.com/vietddude/paywatch/internal/infra/chain/blockcypher"
	"github.com/vietddude/paywatch/internal/infra/chain/solscan"
	"github.com/vietddude/paywatch/internal/infra/chain/tron"
	redisclient "github.com/vietddude/paywatch/internal/infra/redis"
	"github.com/vietddude/paywatch/internal/infra/rpc"
	"github.com/vietddude/paywatch/internal/infra/storage"
	"github.com/vietddude/paywatch/internal/infra/storage/memory"
	"github.com/vietddude/paywatch/internal/infra/storage/postgres"
	"github.com/vietddude/paywatch/internal/payment/health"
	"github.com/vietddude/paywatch/internal/payment/tracking"
	"github.com/vietddude/paywatch/internal/payment/verification"
	"github.com/vietddude/paywatch/internal/payment/webhook"
)

// App wires the registry, explorer clients, verification and webhook
// management, payment tracking and the HTTP server.
type App struct {
	cfg          *config.AppConfig
	registry     *registry.Registry
	clients      map[domain.Currency]*rpc.Client
	dispatcher   *verification.Dispatcher
	webhooks     *webhook.Manager
	tracker      *tracking.Tracker
	pruner       *worker.Pruner
	healthMon    *health.Monitor
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewApp creates an App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{
		cfg:     cfg,
		clients: make(map[domain.Currency]*rpc.Client),
		log:     slog.Default(),
	}

	// 1. Registry
	reg, err := registry.New(cfg.Chains)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain registry: %w", err)
	}
	a.registry = reg

	// 2. Payment tracking storage
	repo, checkers, err := a.initStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.tracker = tracking.NewTracker(repo)
	a.pruner = worker.NewPruner(cfg.Tracking.Retention, repo)

	// 3. Explorer clients and adapters per currency
	retry := cfg.Retry.Routing()
	hooks := make(map[domain.Currency]chain.WebhookAdapter)
	accounts := make(map[domain.Currency]verification.TransactionSource)
	tokens := make(map[domain.Currency]verification.TransferSource)
	providers := make([]rpc.Provider, 0, len(reg.Codes()))

	for _, code := range reg.Codes() {
		chainCfg, _ := reg.Lookup(string(code))

		p := rpc.NewHTTPProvider(providerName(chainCfg.Class, code), chainCfg.APIURL, cfg.HTTP.Timeout)
		client := rpc.NewClient(p, retry)
		a.clients[code] = client
		providers = append(providers, p)

		switch chainCfg.Class {
		case domain.ChainClassUTXO:
			hooks[code] = blockcypher.NewAdapter(code, client, chainCfg.HooksURL(), chainCfg.APIKey)
		case domain.ChainClassAccount:
			accounts[code] = solscan.NewAdapter(client, chainCfg.APIKey)
		case domain.ChainClassTokenLedger:
			tokens[code] = tron.NewTronAdapter(client, chainCfg.APIKey, chainCfg.TokenContract)
		}

		a.log.Info("Chain configured", "currency", code, "class", chainCfg.Class, "provider", p.GetName())
	}

	// 4. Verification and webhooks
	a.dispatcher = verification.NewDispatcher(
		reg,
		verification.NewUTXOVerifier(),
		verification.NewAccountVerifier(accounts),
		verification.NewTokenLedgerVerifier(tokens),
	)
	a.webhooks = webhook.NewManager(reg, hooks, cfg.Callback.BaseURL, webhook.WithRecorder(a.tracker))

	// 5. Health monitor and server
	a.healthMon = health.NewMonitor(providers, checkers)
	a.healthServer = health.NewServer(a.healthMon, a.dispatcher, a.tracker, cfg.Server.Port)

	return a, nil
}

func (a *App) initStorage(ctx context.Context) (storage.PaymentRepository, map[string]health.Checker, error) {
	checkers := make(map[string]health.Checker)

	switch a.cfg.Tracking.Backend {
	case "postgres":
		db, err := postgres.NewDB(ctx, a.cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		a.db = db
		checkers["postgres"] = db.Health
		a.log.Info("Using PostgreSQL tracking storage", "driver", a.cfg.Database.Driver)
		return postgres.NewPaymentRepo(db), checkers, nil

	case "redis":
		client, err := redisclient.NewClient(a.cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init redis: %w", err)
		}
		a.redisClient = client
		checkers["redis"] = client.Health
		a.log.Info("Using Redis tracking storage")
		return redisclient.NewPaymentRepo(client), checkers, nil

	default:
		a.log.Info("Using Memory tracking storage")
		return memory.NewPaymentRepo(memory.NewMemoryStorage()), checkers, nil
	}
}

func providerName(class domain.ChainClass, code domain.Currency) string {
	family := map[domain.ChainClass]string{
		domain.ChainClassUTXO:        "blockcypher",
		domain.ChainClassAccount:     "solscan",
		domain.ChainClassTokenLedger: "trongrid",
	}[class]
	return family + "-" + strings.ToLower(string(code))
}

// Registry returns the chain registry.
func (a *App) Registry() *registry.Registry { return a.registry }

// Dispatcher returns the verification dispatcher.
func (a *App) Dispatcher() *verification.Dispatcher { return a.dispatcher }

// Webhooks returns the webhook manager.
func (a *App) Webhooks() *webhook.Manager { return a.webhooks }

// Tracker returns the payment tracker.
func (a *App) Tracker() *tracking.Tracker { return a.tracker }

// Client returns the explorer client for a currency.
func (a *App) Client(code domain.Currency) (*rpc.Client, bool) {
	c, ok := a.clients[code]
	return c, ok
}

// Start starts the HTTP server and background collectors. It does not block.
func (a *App) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Health server failed", "error", err)
		}
	}()

	// Start Pruner
	go a.pruner.Start(ctx)

	// Start DB Metrics Collector
	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}

	a.log.Info("Paywatch started", "port", a.cfg.Server.Port, "currencies", len(a.clients))
	return nil
}

// Stop stops the server and releases connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping Paywatch...")

	err := a.healthServer.Stop(ctx)
	a.logProviderStats()
	a.Close()
	return err
}

// logProviderStats reports per-provider usage collected during the run.
func (a *App) logProviderStats() {
	for code, c := range a.clients {
		stats, ok := c.GetProviderStats()
		if !ok || stats.RequestsLast24Hours == 0 {
			continue
		}
		a.log.Info("Provider usage",
			"currency", code,
			"provider", c.Provider().GetName(),
			"status", stats.Status,
			"requests_24h", stats.RequestsLast24Hours,
			"avg_latency", stats.AverageLatency,
			"throttled_429", stats.ThrottleCount429,
			"throttled_403", stats.ThrottleCount403,
		)
	}
}

// Close releases explorer, redis and database connections.
func (a *App) Close() {
	for _, c := range a.clients {
		c.Provider().Close()
	}

	// Close Redis
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
}
