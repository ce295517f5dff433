package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/internal/logger"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║   ___| |__   ___  _ __   __ _  ___ _ __              ║",
		"║  / __| '_ \\ / _ \\| '_ \\ / _` |/ _ \\ '_ \\             ║",
		"║  \\__ \\ | | | (_) | |_) | (_| |  __/ | | |            ║",
		"║  |___/_| |_|\\___/| .__/ \\__, |\\___|_| |_|            ║",
		"║                  |_|    |___/                        ║",
		"║                                                      ║",
		"║     🛒 Synthetic e-commerce data, generated & loaded  ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                  ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "shopgen",
	Short: "Generate a synthetic e-commerce dataset and load it into a SQL database",
	Long: `
shopgen produces a reproducible e-commerce dataset (customers, products, orders,
order items and payments) as CSV files, loads them into a relational database and
runs a sample join over the result.

Database Support:
- SQLite (default, file is rebuilt on every load)
- PostgreSQL
- MySQL`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogger(verbose)
	},

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("shopgen CLI version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".json"))
	}

	viper.SetEnvPrefix("SHOPGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.InfoLogger.Debugf("using config file %s", viper.ConfigFileUsed())
	}
}
