package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/cli"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cobertura",
		Short:   "Cobertura - incremental order collection and SKU coverage analysis",
		Version: version.String(),
		Long: `Cobertura harvests purchase and sale orders from the Bling API into local
caches and reconciles them against the tracked SKU spreadsheet: last purchase,
last sale, current stock balance and quantity sold since the last run.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.CacheCmd())
	rootCmd.AddCommand(cli.CheckpointCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
