package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show checkpoint and cache state without touching the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cp, err := wire.CheckpointRepository().Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load checkpoint: %w", err)
			}
			purchases, err := wire.CacheRepository().Count(ctx, models.KindPurchase)
			if err != nil {
				return fmt.Errorf("failed to count purchase cache: %w", err)
			}
			sales, err := wire.CacheRepository().Count(ctx, models.KindSale)
			if err != nil {
				return fmt.Errorf("failed to count sale cache: %w", err)
			}

			cfg := wire.Config()
			fmt.Println("Cobertura Status")
			fmt.Println()
			fmt.Printf("Checkpoint:     %s (next window starts here)\n", cp.LastRun)
			fmt.Printf("Purchase cache: %d records\n", purchases)
			fmt.Printf("Sale cache:     %d records\n", sales)
			fmt.Printf("Storage:        %s (%s)\n", cfg.Storage, cfg.DataDir)
			return nil
		},
	}
}
