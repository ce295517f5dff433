package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/internal/loader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:     "ingest",
	Aliases: []string{"load"},
	Short:   "Load the generated CSV files into the database",
	Long: `
Rebuild the database from the CSV files in the data directory. Existing data is
discarded first: the SQLite file is deleted, PostgreSQL and MySQL tables are dropped.

Examples:
  shopgen ingest
  shopgen load --data /tmp/shop`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"data_dir": "data"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runIngest(cmd.Context(), cfg)
	},
}

func runIngest(ctx context.Context, cfg *config.Config) error {
	if err := loader.CheckInputs(cfg.DataDir); err != nil {
		color.Yellow("⚠️  Run `shopgen generate` first")
		return fmt.Errorf("ingest failed: %w", err)
	}

	adapter, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer adapter.Close()

	color.Cyan("📥 Loading %s into %s...", cfg.DataDir, cfg.Database.Provider)
	loads, err := loader.New(adapter, cfg.DataDir).Load(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	var total int64
	for _, l := range loads {
		total += l.Rows
	}
	color.Green("\n✅ Loaded %d rows across %d tables", total, len(loads))
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().String("data", config.Default().DataDir, "Directory holding the CSV files")
}
