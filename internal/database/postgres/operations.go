package postgres

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/common"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// Reset drops the tables in reverse dependency order.
func (p *Adapter) Reset(ctx context.Context, tables []types.SchemaTable) error {
	for i := len(tables) - 1; i >= 0; i-- {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pq.QuoteIdentifier(tables[i].Name))
		if _, err := p.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tables[i].Name, err)
		}
	}
	return nil
}

func (p *Adapter) CreateTable(ctx context.Context, table types.SchemaTable) error {
	if err := common.ValidateIdentifiers(table.Name, table.ColumnNames()); err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, p.GenerateCreateTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

// BulkInsert queues every row on one pgx batch inside a transaction.
func (p *Adapter) BulkInsert(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	query, err := common.InsertSQL(p.qb, table, columns)
	if err != nil {
		return 0, err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row...)
	}

	br := tx.SendBatch(ctx, batch)
	var inserted int64
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		inserted++
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}
	return inserted, nil
}

func (p *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	if !common.IsValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	query, args, err := p.qb.Select("COUNT(*)").From(pq.QuoteIdentifier(table)).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", table, err)
	}
	return count, nil
}

func (p *Adapter) GenerateCreateTableSQL(table types.SchemaTable) string {
	return common.CreateTableSQL(table, pq.QuoteIdentifier, p.FormatColumnType)
}

func (p *Adapter) FormatColumnType(column types.SchemaColumn) string {
	return common.FormatColumnType(p.MapColumnType(column.Type), column)
}
