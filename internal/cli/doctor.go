package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	googleadapter "github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/google"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/config"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/wire"
)

// DoctorCmd returns the doctor command
func DoctorCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the collector's configuration and stores",
		Long: `Check that the collector can run: config present and valid, data dir
writable, storage backend reachable. With --remote it also verifies the
credentials secret is readable (and non-empty) and the tracked SKU sheet
responds. Remote checks spend API quota.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ok := color.New(color.FgGreen).SprintFunc()("ok")
			failures := 0
			check := func(name string, err error) {
				if err != nil {
					failures++
					fmt.Printf("  %-22s %v\n", name+":", color.New(color.FgRed).Sprintf("FAIL (%v)", err))
					return
				}
				fmt.Printf("  %-22s %s\n", name+":", ok)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			fmt.Println("Cobertura Doctor")
			fmt.Println()

			cfg, err := config.LoadConfig(cwd)
			check("config", err)
			if err != nil {
				return fmt.Errorf("%d check(s) failed", 1)
			}

			check("data dir", dirWritable(cfg.DataDir))

			_, err = wire.CheckpointRepository().Load(ctx)
			check("checkpoint store", err)

			if remote {
				secrets, err := googleadapter.NewSecretStore(ctx, cfg.APIBaseURL)
				check("secret client", err)
				if err == nil {
					_, err = secrets.Get(ctx, cfg.SecretName)
					check("credentials", err)
				}

				sheets, err := googleadapter.NewSheetsStore(ctx, cfg.GoogleKeyFile)
				check("sheets client", err)
				if err == nil {
					_, err = sheets.GetRange(ctx, cfg.SpreadsheetID, cfg.SheetRange)
					check("tracked SKU sheet", err)
				}
			}

			fmt.Println()
			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Println("All checks passed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also verify credentials and the spreadsheet (spends quota)")
	return cmd
}

func dirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
