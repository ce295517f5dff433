package mysql

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/common"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
)

func quote(name string) string {
	return "`" + name + "`"
}

// Reset drops the tables in reverse dependency order.
func (m *Adapter) Reset(ctx context.Context, tables []types.SchemaTable) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := m.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(tables[i].Name)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tables[i].Name, err)
		}
	}
	return nil
}

func (m *Adapter) CreateTable(ctx context.Context, table types.SchemaTable) error {
	if err := common.ValidateIdentifiers(table.Name, table.ColumnNames()); err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, m.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

func (m *Adapter) BulkInsert(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	query, err := common.InsertSQL(m.qb, table, columns)
	if err != nil {
		return 0, err
	}
	return common.BulkInsert(ctx, m.db, query, rows)
}

func (m *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	return common.CountRows(ctx, m.db, m.qb, table)
}

func (m *Adapter) GenerateCreateTableSQL(table types.SchemaTable) string {
	return common.CreateTableSQL(table, quote, m.FormatColumnType)
}

func (m *Adapter) FormatColumnType(column types.SchemaColumn) string {
	return common.FormatColumnType(m.MapColumnType(column.Type), column)
}
