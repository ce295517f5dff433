package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/common"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
	"github.com/Masterminds/squirrel"
)

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Reset removes whatever a previous load left behind. It is destructive.
	Reset(ctx context.Context, tables []types.SchemaTable) error
	CreateTable(ctx context.Context, table types.SchemaTable) error

	// BulkInsert writes all rows with one prepared, parameterized statement
	// inside a single transaction and returns the number of rows inserted.
	BulkInsert(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error)
	CountRows(ctx context.Context, table string) (int64, error)
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error)

	// SQL generation
	GenerateCreateTableSQL(table types.SchemaTable) string
	MapColumnType(colType string) string
	QueryBuilder() squirrel.StatementBuilderType
}
