package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/common"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
)

func quote(name string) string {
	return `"` + name + `"`
}

// Reset deletes the database file outright and reopens an empty one. In-memory
// databases drop the given tables instead.
func (s *Adapter) Reset(ctx context.Context, tables []types.SchemaTable) error {
	if s.inMemory() {
		for i := len(tables) - 1; i >= 0; i-- {
			if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(tables[i].Name)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", tables[i].Name, err)
			}
		}
		return nil
	}

	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database before reset: %w", err)
	}
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", s.path+suffix, err)
		}
	}
	return s.open()
}

func (s *Adapter) CreateTable(ctx context.Context, table types.SchemaTable) error {
	if err := common.ValidateIdentifiers(table.Name, table.ColumnNames()); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

func (s *Adapter) BulkInsert(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	query, err := common.InsertSQL(s.qb, table, columns)
	if err != nil {
		return 0, err
	}
	return common.BulkInsert(ctx, s.db, query, rows)
}

func (s *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	return common.CountRows(ctx, s.db, s.qb, table)
}

func (s *Adapter) GenerateCreateTableSQL(table types.SchemaTable) string {
	return common.CreateTableSQL(table, quote, s.FormatColumnType)
}

func (s *Adapter) FormatColumnType(column types.SchemaColumn) string {
	return common.FormatColumnType(s.MapColumnType(column.Type), column)
}
