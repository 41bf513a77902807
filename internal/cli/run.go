// Package cli contains the cobra commands of the cobertura binary.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/cli"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Collect orders and reconcile tracked SKUs",
		Long: `Run one full collection and reconciliation cycle:

1. Load the last-run checkpoint (epoch on first run).
2. Collect purchase orders from the checkpoint to today, skipping cached ids.
3. Collect sale orders the same way.
4. Reconcile every tracked SKU row: last purchase, last sale, live stock
   balance, quantity sold since the window start.
5. Write the rows back and advance the checkpoint to today.

The checkpoint only advances after a fully successful cycle; caches persisted
along the way survive a failed run as partial progress.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter := cliadapter.NewRunAdapter(wire.RunService(ctx), os.Stdout)
			return adapter.Run(ctx)
		},
	}
}
