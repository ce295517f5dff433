package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lumos-Labs-HQ/shopgen/internal/config"
	"github.com/Lumos-Labs-HQ/shopgen/template"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new shopgen project",
	Long:  `Write a ` + config.FileName + ` and .env for the chosen database in the current directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.SQLite
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(".", dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(root string, dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	for _, dir := range tmpl.GetDirectoryStructure() {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("ℹ️  Skipped %s (already exists)\n", config.FileName)
	} else if err := os.WriteFile(configPath, []byte(tmpl.GetConfig()), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", config.FileName, err)
	}

	if err := appendIfMissing(filepath.Join(root, ".env"), "DATABASE_URL", tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}
	if err := appendIfMissing(filepath.Join(root, ".gitignore"), "data/", tmpl.GetGitignore()); err != nil {
		return fmt.Errorf("failed to handle .gitignore file: %w", err)
	}

	fmt.Printf("✅ Successfully initialized shopgen project with %s database support\n", dbType)
	fmt.Println()
	fmt.Println("📝 Configuration file created:")
	fmt.Printf("   %s\n", config.FileName)

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   shopgen generate   # Write CSV files to data/\n")
	fmt.Printf("   shopgen ingest     # Load them into the database\n")
	fmt.Printf("   shopgen query      # Print the sample join\n")

	return nil
}

// appendIfMissing creates path with content, or appends content when the file
// exists but does not mention marker.
func appendIfMissing(path, marker, content string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(path, []byte(content), 0644)
		}
		return err
	}

	existingStr := string(existing)
	if strings.Contains(existingStr, marker) {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by shopgen\n" + content

	return os.WriteFile(path, []byte(existingStr), 0644)
}
