package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var orderID string

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage provider webhooks for UTXO payment addresses",
}

var webhookRegisterCmd = &cobra.Command{
	Use:   "register <currency> <address>",
	Short: "Register a confirmation webhook for an address",
	Args:  cobra.ExactArgs(2),
	RunE:  runWebhookRegister,
}

var webhookListCmd = &cobra.Command{
	Use:   "list <currency>",
	Short: "List webhooks registered with the provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookList,
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete <currency> <webhook-id>",
	Short: "Delete a single webhook",
	Args:  cobra.ExactArgs(2),
	RunE:  runWebhookDelete,
}

var webhookDeleteAllCmd = &cobra.Command{
	Use:   "delete-all <currency>",
	Short: "Delete every webhook registered for a currency",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDeleteAll,
}

func init() {
	webhookRegisterCmd.Flags().StringVar(&orderID, "order-id", "", "order id for the callback URL (generated when empty)")

	webhookCmd.AddCommand(webhookRegisterCmd, webhookListCmd, webhookDeleteCmd, webhookDeleteAllCmd)
	rootCmd.AddCommand(webhookCmd)
}

func runWebhookRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	id := orderID
	if id == "" {
		id = uuid.NewString()
	}

	reg, err := app.Webhooks().RegisterWebhook(ctx, args[1], args[0], id)
	if reg == nil {
		return err
	}
	if err != nil {
		// The hook exists at the provider even though tracking failed.
		slog.Warn("Webhook registered without tracking", "webhook_id", reg.WebhookID, "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reg)
}

func runWebhookList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	subs, err := app.Webhooks().ListWebhooks(ctx, args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tADDRESS\tEVENTS\tURL")
	for _, s := range subs {
		events := make([]string, len(s.Events))
		for i, e := range s.Events {
			events[i] = string(e)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Address, strings.Join(events, ","), s.URL)
	}
	return w.Flush()
}

func runWebhookDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Webhooks().DeleteWebhook(ctx, args[1], args[0])
}

func runWebhookDeleteAll(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Webhooks().DeleteAllWebhooks(ctx, args[0])
}
