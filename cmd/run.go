package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, load and query in one go",
	Long: `
Run the whole pipeline: generate the CSV files, rebuild the database from them and
print the sample join. Accepts the same flags as generate.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindGenerateFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if _, err := runGenerate(ctx, cfg); err != nil {
			return err
		}
		fmt.Println()
		if err := runIngest(ctx, cfg); err != nil {
			return err
		}
		fmt.Println()
		return runQuery(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addGenerateFlags(runCmd)
}
