package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/wire"
)

// CheckpointCmd returns the checkpoint command group
func CheckpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect and override the last-run checkpoint",
	}
	cmd.AddCommand(checkpointShowCmd())
	cmd.AddCommand(checkpointSetCmd())
	return cmd
}

func checkpointShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := wire.CheckpointRepository().Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load checkpoint: %w", err)
			}
			fmt.Printf("lastRun = %s\n", cp.LastRun)
			return nil
		},
	}
}

func checkpointSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set YYYY-MM-DD",
		Short: "Override the checkpoint, widening or narrowing the next window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := models.ParseDay(args[0])
			if err != nil {
				return err
			}
			if day.IsZero() {
				return fmt.Errorf("checkpoint date must not be empty")
			}
			cp := models.Checkpoint{LastRun: day}
			if err := wire.CheckpointRepository().Save(cmd.Context(), cp); err != nil {
				return fmt.Errorf("failed to save checkpoint: %w", err)
			}
			fmt.Printf("✓ lastRun = %s\n", cp.LastRun)
			return nil
		},
	}
}
