package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/paywatch/internal/core/registry"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List configured currencies",
	RunE:  runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, args []string) error {
	reg, err := registry.New(cfg.Chains)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "CURRENCY\tCLASS\tDECIMALS\tMIN CONF\tAPI")
	for _, code := range reg.Codes() {
		c, _ := reg.Lookup(string(code))
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", code, c.Class, c.Decimals, c.MinConfirmations, c.APIURL)
	}
	return w.Flush()
}
