package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigIsValidJSON(t *testing.T) {
	for _, dbType := range []DatabaseType{SQLite, PostgreSQL, MySQL} {
		var parsed struct {
			DataDir  string `json:"data_dir"`
			Database struct {
				Provider string `json:"provider"`
				URLEnv   string `json:"url_env"`
			} `json:"database"`
			Generate struct {
				Customers int   `json:"customers"`
				Seed      int64 `json:"seed"`
			} `json:"generate"`
		}
		require.NoError(t, json.Unmarshal([]byte(NewProjectTemplate(dbType).GetConfig()), &parsed), dbType)
		assert.Equal(t, string(dbType), parsed.Database.Provider)
		assert.Equal(t, "DATABASE_URL", parsed.Database.URLEnv)
		assert.Equal(t, "data", parsed.DataDir)
		assert.Equal(t, 60, parsed.Generate.Customers)
		assert.Equal(t, int64(42), parsed.Generate.Seed)
	}
}

func TestGetEnvTemplate(t *testing.T) {
	assert.Equal(t, "DATABASE_URL=sqlite://ecom.db\n", NewProjectTemplate(SQLite).GetEnvTemplate())
	assert.Contains(t, NewProjectTemplate(MySQL).GetEnvTemplate(), "mysql://")
	assert.Contains(t, NewProjectTemplate(PostgreSQL).GetEnvTemplate(), "postgres://")
}

func TestUnknownTypeFallsBackToSQLite(t *testing.T) {
	assert.Equal(t, SQLite, NewProjectTemplate("oracle").DatabaseType)
}
