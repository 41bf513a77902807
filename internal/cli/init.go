package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		spreadsheetID string
		secretName    string
		bucket        string
		storage       string
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .cobertura/config.json in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			path := filepath.Join(cwd, ".cobertura", "config.json")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig(cwd)
			cfg.SpreadsheetID = spreadsheetID
			cfg.SecretName = secretName
			cfg.Bucket = bucket
			if storage != "" {
				cfg.Storage = storage
			}

			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ wrote %s\n", path)
			if spreadsheetID == "" || secretName == "" {
				fmt.Println("Fill in spreadsheet_id and secret_name before running `cobertura run`.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "tracked SKU spreadsheet id")
	cmd.Flags().StringVar(&secretName, "secret-name", "", "secret manager resource name of the API credentials")
	cmd.Flags().StringVar(&bucket, "bucket", "", "checkpoint mirror bucket (optional)")
	cmd.Flags().StringVar(&storage, "storage", "", "storage backend: json or sqlite")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}
