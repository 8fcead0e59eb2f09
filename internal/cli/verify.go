package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vietddude/paywatch/internal/core/domain"
)

var verifyStats bool

var verifyCmd = &cobra.Command{
	Use:   "verify <currency> <address>",
	Short: "Verify the latest payment to an address",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyStats, "stats", false, "print the explorer provider dashboard to stderr")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Dispatcher().GetPaymentByAddress(ctx, args[1], args[0])
	if verifyStats {
		if client, ok := app.Client(domain.NormalizeCurrency(args[0])); ok {
			fmt.Fprint(os.Stderr, client.PrintMonitorDashboard())
		}
	}
	if err != nil {
		slog.Error("Verification failed", "currency", args[0], "address", args[1], "error", err)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
