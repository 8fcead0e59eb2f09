package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/paywatch/internal/core/domain"
)

var (
	confirmTxHash        string
	confirmConfirmations int
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Inspect and update tracked webhook payments",
}

var paymentsConfirmCmd = &cobra.Command{
	Use:   "confirm <order-id>",
	Short: "Mark a tracked payment as confirmed",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsConfirm,
}

var paymentsStatusCmd = &cobra.Command{
	Use:   "status [order-id]",
	Short: "Show one tracked payment, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPaymentsStatus,
}

func init() {
	paymentsConfirmCmd.Flags().StringVar(&confirmTxHash, "tx", "", "confirming transaction hash")
	paymentsConfirmCmd.Flags().IntVar(&confirmConfirmations, "confirmations", 0, "confirmation count reported by the provider")
	_ = paymentsConfirmCmd.MarkFlagRequired("tx")

	paymentsCmd.AddCommand(paymentsConfirmCmd, paymentsStatusCmd)
	rootCmd.AddCommand(paymentsCmd)
}

func runPaymentsConfirm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Tracker().Confirm(ctx, args[0], domain.Confirmation{
		TxHash:        confirmTxHash,
		Confirmations: confirmConfirmations,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runPaymentsStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var payments []*domain.TrackedPayment
	if len(args) == 1 {
		p, err := app.Tracker().Get(ctx, args[0])
		if err != nil {
			return err
		}
		payments = append(payments, p)
	} else {
		payments, err = app.Tracker().List(ctx)
		if err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ORDER\tCURRENCY\tADDRESS\tSTATE\tTX\tCREATED")
	for _, p := range payments {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.OrderID, p.Currency, p.Address, p.State, p.TxHash, p.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
