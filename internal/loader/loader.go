// Package loader rebuilds the relational store from the CSV artifacts written
// by the synthesizer.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database"
	"github.com/Lumos-Labs-HQ/shopgen/internal/logger"
	"github.com/Lumos-Labs-HQ/shopgen/internal/schema"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
	"github.com/Masterminds/squirrel"
	"github.com/fatih/color"
	"github.com/spf13/cast"
)

var (
	ErrMissingInput = errors.New("input data not found")
	ErrCoercion     = errors.New("value does not match column type")
)

// CoercionError reports the first field that could not be converted to its
// column type. Line is the 1-based line in the artifact, header included.
type CoercionError struct {
	Table  string
	Line   int
	Column string
	Type   string
	Value  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s line %d: column %s: cannot convert %q to %s", e.Table, e.Line, e.Column, e.Value, e.Type)
}

func (e *CoercionError) Unwrap() error {
	return ErrCoercion
}

type TableLoad struct {
	Table string
	Rows  int64
}

// TableCheck compares a table with its artifact. Orphans counts rows whose
// foreign keys point at missing parents.
type TableCheck struct {
	Table    string
	Artifact int64
	Stored   int64
	Orphans  int64
}

func (c TableCheck) Match() bool {
	return c.Artifact == c.Stored && c.Orphans == 0
}

type Loader struct {
	adapter database.DatabaseAdapter
	dataDir string
	out     io.Writer
}

func New(adapter database.DatabaseAdapter, dataDir string) *Loader {
	return &Loader{
		adapter: adapter,
		dataDir: dataDir,
		out:     color.Output,
	}
}

// SetOutput redirects progress lines.
func (l *Loader) SetOutput(w io.Writer) {
	l.out = w
}

func (l *Loader) artifactPath(table string) string {
	return filepath.Join(l.dataDir, schema.ArtifactName(table))
}

// CheckInputs fails with ErrMissingInput unless dataDir is a directory holding
// every artifact. It touches no storage, so callers run it before connecting.
func CheckInputs(dataDir string) error {
	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: directory %s", ErrMissingInput, dataDir)
	}
	for _, table := range schema.Tables() {
		path := filepath.Join(dataDir, schema.ArtifactName(table.Name))
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
	}
	return nil
}

// Load discards the previous store, recreates the schema and inserts every
// artifact in dependency order. Each table commits on its own, so a failure
// leaves earlier tables loaded.
func (l *Loader) Load(ctx context.Context) ([]TableLoad, error) {
	tables, err := schema.LoadOrder()
	if err != nil {
		return nil, err
	}
	if err := CheckInputs(l.dataDir); err != nil {
		return nil, err
	}

	color.New(color.FgYellow).Fprintln(l.out, "🗑️  Resetting database...")
	if err := l.adapter.Reset(ctx, tables); err != nil {
		return nil, fmt.Errorf("failed to reset database: %w", err)
	}
	for _, table := range tables {
		if err := l.adapter.CreateTable(ctx, table); err != nil {
			return nil, err
		}
		logger.InfoLogger.Debugf("created table %s", table.Name)
	}

	var loads []TableLoad
	for _, table := range tables {
		rows, err := l.readTable(table)
		if err != nil {
			return loads, err
		}

		n, err := l.adapter.BulkInsert(ctx, table.Name, table.ColumnNames(), rows)
		if err != nil {
			return loads, fmt.Errorf("failed to load %s: %w", table.Name, err)
		}
		loads = append(loads, TableLoad{Table: table.Name, Rows: n})
		color.New(color.FgGreen).Fprintf(l.out, "  ✅ Loaded %d rows into %s\n", n, table.Name)
	}
	return loads, nil
}

// readTable reads an artifact and returns its rows ordered by the schema's
// columns, whatever the header order.
func (l *Loader) readTable(table types.SchemaTable) ([][]interface{}, error) {
	path := l.artifactPath(table.Name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}
	index := make([]int, len(table.Columns))
	for i, column := range table.Columns {
		pos, ok := positions[column.Name]
		if !ok {
			return nil, fmt.Errorf("%s: missing column %s", path, column.Name)
		}
		index[i] = pos
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.InfoLogger.Debugf("read %d records from %s", len(records), path)

	rows := make([][]interface{}, 0, len(records))
	for n, record := range records {
		row := make([]interface{}, len(table.Columns))
		for i, column := range table.Columns {
			value, err := coerce(column, record[index[i]])
			if err != nil {
				return nil, &CoercionError{
					Table:  table.Name,
					Line:   n + 2,
					Column: column.Name,
					Type:   column.Type,
					Value:  record[index[i]],
				}
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// coerce converts a CSV field to the Go value for its column type. An empty
// field in a nullable column becomes NULL.
func coerce(column types.SchemaColumn, raw string) (interface{}, error) {
	if raw == "" && column.Nullable {
		return nil, nil
	}
	switch column.Type {
	case schema.Integer:
		return strconv.ParseInt(raw, 10, 64)
	case schema.Real:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

// Verify compares stored row counts with the artifact row counts and counts
// dangling foreign keys.
func (l *Loader) Verify(ctx context.Context) ([]TableCheck, error) {
	tables, err := schema.LoadOrder()
	if err != nil {
		return nil, err
	}
	if err := CheckInputs(l.dataDir); err != nil {
		return nil, err
	}

	checks := make([]TableCheck, 0, len(tables))
	for _, table := range tables {
		artifact, err := countRecords(l.artifactPath(table.Name))
		if err != nil {
			return nil, err
		}
		stored, err := l.adapter.CountRows(ctx, table.Name)
		if err != nil {
			return nil, err
		}
		orphans, err := l.countOrphans(ctx, table)
		if err != nil {
			return nil, err
		}
		checks = append(checks, TableCheck{Table: table.Name, Artifact: artifact, Stored: stored, Orphans: orphans})
	}
	return checks, nil
}

func (l *Loader) countOrphans(ctx context.Context, table types.SchemaTable) (int64, error) {
	var total int64
	for _, column := range table.Columns {
		if column.ForeignKeyTable == "" {
			continue
		}
		query, args, err := OrphanQuery(l.adapter.QueryBuilder(), table.Name, column).ToSql()
		if err != nil {
			return 0, err
		}
		result, err := l.adapter.ExecuteQuery(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to check %s.%s: %w", table.Name, column.Name, err)
		}
		if len(result.Rows) == 1 {
			n, err := cast.ToInt64E(result.Rows[0]["orphans"])
			if err != nil {
				return 0, fmt.Errorf("failed to read orphan count for %s.%s: %w", table.Name, column.Name, err)
			}
			total += n
		}
	}
	return total, nil
}

// OrphanQuery counts rows of table whose column references a missing parent.
func OrphanQuery(qb squirrel.StatementBuilderType, table string, column types.SchemaColumn) squirrel.SelectBuilder {
	return qb.Select("COUNT(*) AS orphans").
		From(table + " c").
		LeftJoin(fmt.Sprintf("%s p ON p.%s = c.%s", column.ForeignKeyTable, column.ForeignKeyColumn, column.Name)).
		Where(squirrel.And{
			squirrel.NotEq{"c." + column.Name: nil},
			squirrel.Eq{"p." + column.ForeignKeyColumn: nil},
		})
}

func countRecords(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	var n int64
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		n++
	}
	if n > 0 {
		n--
	}
	return n, nil
}
