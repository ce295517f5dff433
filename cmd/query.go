package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the first order lines joined with customer, product and payment",
	Long: `
Run the sample join over the loaded tables and print the first 10 rows: customer
name, order id, product, quantity, unit price, line total, payment method and status.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runQuery(cmd.Context(), cfg)
	},
}

func runQuery(ctx context.Context, cfg *config.Config) error {
	adapter, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer adapter.Close()

	rows, err := report.Run(ctx, adapter)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("📊 No rows returned")
		return nil
	}

	color.Cyan("📊 %d row(s) returned\n", len(rows))
	report.Print(color.Output, rows)
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
