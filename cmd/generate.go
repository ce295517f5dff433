package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/internal/synth"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic dataset as CSV files",
	Long: `
Generate customers, products, orders, order items and payments and write one CSV
file per table into the data directory. Output is reproducible: the same seed,
counts and anchor always yield byte-identical files.

Examples:
  shopgen generate
  shopgen generate --customers 500 --products 80 --orders 2000 --seed 7
  shopgen generate --now --out /tmp/shop`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindGenerateFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = runGenerate(cmd.Context(), cfg)
		return err
	},
}

func addGenerateFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Int("customers", d.Generate.Customers, "Number of customers")
	cmd.Flags().Int("products", d.Generate.Products, "Number of products")
	cmd.Flags().Int("orders", d.Generate.Orders, "Number of orders")
	cmd.Flags().Int64("seed", d.Generate.Seed, "Random seed")
	cmd.Flags().String("anchor", d.Generate.Anchor, "Reference time that dates are backdated from (YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().Bool("now", false, "Backdate from the current time instead of the anchor")
	cmd.Flags().String("out", d.DataDir, "Directory the CSV files are written to")
}

func bindGenerateFlags(cmd *cobra.Command) error {
	if err := bindFlags(cmd, map[string]string{
		"generate.customers": "customers",
		"generate.products":  "products",
		"generate.orders":    "orders",
		"generate.seed":      "seed",
		"generate.anchor":    "anchor",
		"data_dir":           "out",
	}); err != nil {
		return err
	}
	if now, _ := cmd.Flags().GetBool("now"); now {
		viper.Set("generate.anchor", config.AnchorNow)
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *config.Config) ([]synth.Artifact, error) {
	anchor, err := cfg.AnchorTime()
	if err != nil {
		return nil, err
	}
	opts := cfg.SynthOptions()
	opts.Anchor = anchor

	s, err := synth.New(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid generate settings: %w", err)
	}

	color.Cyan("🛒 Generating dataset (seed %d, anchor %s)...", opts.Seed, anchor.Format(synth.TimeLayout))
	ds, err := s.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	artifacts, err := ds.WriteCSV(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to write dataset: %w", err)
	}

	for _, a := range artifacts {
		color.Green("  ✅ %-12s %5d rows → %s", a.Table, a.Rows, a.Path)
	}
	color.Green("\n✅ CSV files generated in %s", cfg.DataDir)
	return artifacts, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}
