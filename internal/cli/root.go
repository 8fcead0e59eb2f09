package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/paywatch/internal/control"
	"github.com/vietddude/paywatch/internal/core/config"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool

	// cfg is loaded once by the root pre-run hook.
	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "paywatch",
	Short: "Paywatch payment verification service",
	Long: `Paywatch verifies cryptocurrency payments across BTC, LTC, DOGE, SOL and USDT (TRC20),
and manages BlockCypher webhooks for UTXO payment addresses.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run:               runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	// Load Configuration
	loaded, err := loadConfig(cmd)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		return err
	}
	cfg = loaded

	// Setup logging
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
	return nil
}

// loadConfig falls back to built-in defaults when the default config file is absent.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	loaded, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Parse(nil)
	}
	return loaded, err
}

// newApp builds the application for one-shot commands. The caller must Close it.
func newApp(ctx context.Context) (*control.App, error) {
	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize Paywatch", "error", err)
		return nil, err
	}
	return app, nil
}
