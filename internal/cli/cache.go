package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/wire"
)

// CacheCmd returns the cache command group
func CacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the record caches",
	}
	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts per cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, kind := range []models.OrderKind{models.KindPurchase, models.KindSale} {
				n, err := wire.CacheRepository().Count(ctx, kind)
				if err != nil {
					return fmt.Errorf("failed to count %s cache: %w", kind, err)
				}
				fmt.Printf("%-10s %d records\n", string(kind)+":", n)
			}
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached records so the next run re-fetches them",
		Long: `Drop cached records. The next run re-fetches every record still listed in
its window, so clearing a cache trades API calls for a clean slate. Rejected
purchase records (wrong category) are re-evaluated either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var kinds []models.OrderKind
			switch kindFlag {
			case "purchase":
				kinds = []models.OrderKind{models.KindPurchase}
			case "sale":
				kinds = []models.OrderKind{models.KindSale}
			case "all":
				kinds = []models.OrderKind{models.KindPurchase, models.KindSale}
			default:
				return fmt.Errorf("unknown kind %q (purchase|sale|all)", kindFlag)
			}

			for _, kind := range kinds {
				if err := wire.CacheRepository().Clear(ctx, kind); err != nil {
					return fmt.Errorf("failed to clear %s cache: %w", kind, err)
				}
				fmt.Printf("✓ cleared %s cache\n", kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "all", "cache to clear: purchase, sale or all")
	return cmd
}
