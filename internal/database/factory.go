package database

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/shopgen/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/shopgen/internal/database/sqlite"
)

var SupportedProviders = []string{"sqlite", "sqlite3", "postgresql", "postgres", "mysql"}

// IsSupported reports whether NewAdapter accepts provider.
func IsSupported(provider string) bool {
	for _, p := range SupportedProviders {
		if p == provider {
			return true
		}
	}
	return false
}

func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "sqlite", "sqlite3", "":
		return sqlite.New(), nil
	case "postgresql", "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider: %s. Supported providers: %v", provider, SupportedProviders)
	}
}
