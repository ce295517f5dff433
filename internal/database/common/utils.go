package common

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
	"github.com/Masterminds/squirrel"
)

// validIdentifier guards table and column names, which cannot be bound as parameters.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

func ValidateIdentifiers(table string, columns []string) error {
	if !IsValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	for _, col := range columns {
		if !IsValidIdentifier(col) {
			return fmt.Errorf("invalid column name in table %s: %s", table, col)
		}
	}
	return nil
}

// CreateTableSQL renders a CREATE TABLE statement with column definitions
// followed by table-level FOREIGN KEY clauses.
func CreateTableSQL(table types.SchemaTable, quote func(string) string, columnType func(types.SchemaColumn) string) string {
	var foreignKeys []string
	for _, column := range table.Columns {
		if column.ForeignKeyTable != "" && column.ForeignKeyColumn != "" {
			foreignKeys = append(foreignKeys, fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
				quote(column.Name), quote(column.ForeignKeyTable), quote(column.ForeignKeyColumn)))
		}
	}

	lines := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", quote(table.Name))}
	for i, column := range table.Columns {
		comma := ","
		if i == len(table.Columns)-1 && len(foreignKeys) == 0 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("  %s %s%s", quote(column.Name), columnType(column), comma))
	}
	for i, fk := range foreignKeys {
		comma := ","
		if i == len(foreignKeys)-1 {
			comma = ""
		}
		lines = append(lines, fk+comma)
	}
	lines = append(lines, ");")
	return strings.Join(lines, "\n")
}

// FormatColumnType appends key and nullability constraints to a dialect type.
func FormatColumnType(dbType string, column types.SchemaColumn) string {
	parts := []string{dbType}
	if column.IsPrimary {
		parts = append(parts, "PRIMARY KEY")
	}
	if !column.Nullable && !column.IsPrimary {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

// InsertSQL builds a single-row parameterized INSERT for the given columns.
func InsertSQL(qb squirrel.StatementBuilderType, table string, columns []string) (string, error) {
	if err := ValidateIdentifiers(table, columns); err != nil {
		return "", err
	}
	query, _, err := qb.Insert(table).Columns(columns...).Values(make([]interface{}, len(columns))...).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert for %s: %w", table, err)
	}
	return query, nil
}

// BulkInsert executes one prepared statement per row inside a single transaction.
func BulkInsert(ctx context.Context, db *sql.DB, query string, rows [][]interface{}) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}
	return inserted, nil
}

func CountRows(ctx context.Context, db *sql.DB, qb squirrel.StatementBuilderType, table string) (int64, error) {
	if !IsValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	query, args, err := qb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", table, err)
	}
	return count, nil
}

// ScanRows drains rows into a QueryResult, turning []byte values into strings.
func ScanRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &QueryResult{
		Columns: columns,
		Rows:    results,
	}, nil
}
