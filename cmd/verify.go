package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/internal/loader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare table row counts with the CSV files and check foreign keys",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"data_dir": "data"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runVerify(cmd.Context(), cfg)
	},
}

func runVerify(ctx context.Context, cfg *config.Config) error {
	if err := loader.CheckInputs(cfg.DataDir); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	adapter, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer adapter.Close()

	checks, err := loader.New(adapter, cfg.DataDir).Verify(ctx)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	mismatched := 0
	for _, c := range checks {
		if c.Match() {
			color.Green("  ✅ %-12s %5d rows", c.Table, c.Stored)
			continue
		}
		mismatched++
		color.Red("  ❌ %-12s csv %d, table %d, dangling references %d", c.Table, c.Artifact, c.Stored, c.Orphans)
	}

	if mismatched > 0 {
		return fmt.Errorf("%d table(s) do not match their CSV files", mismatched)
	}
	color.Green("\n✅ All tables match")
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("data", config.Default().DataDir, "Directory holding the CSV files")
}
