package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/common"
	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db   *sql.DB
	qb   squirrel.StatementBuilderType
	path string
	dsn  string
}

var typeMap = map[string]string{
	"integer": "INTEGER", "int": "INTEGER", "bigint": "INTEGER",
	"real": "REAL", "double": "REAL", "float": "REAL", "numeric": "REAL", "decimal": "REAL",
	"text": "TEXT", "varchar": "TEXT", "char": "TEXT", "timestamp": "TEXT", "datetime": "TEXT",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Connect accepts "sqlite://path", "file:path" or a bare path.
func (s *Adapter) Connect(ctx context.Context, url string) error {
	dsn := strings.TrimPrefix(url, "sqlite://")
	s.dsn = dsn

	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	s.path = path

	return s.open()
}

func (s *Adapter) open() error {
	db, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// one connection keeps :memory: databases alive and writes serialized
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path is the database file backing the connection, or ":memory:".
func (s *Adapter) Path() string {
	return s.path
}

func (s *Adapter) inMemory() bool {
	return s.path == "" || s.path == ":memory:" || strings.Contains(s.dsn, "mode=memory")
}

func (s *Adapter) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return common.ScanRows(rows)
}

func (s *Adapter) QueryBuilder() squirrel.StatementBuilderType {
	return s.qb
}

func (s *Adapter) MapColumnType(colType string) string {
	if mapped, exists := typeMap[strings.ToLower(colType)]; exists {
		return mapped
	}
	return strings.ToUpper(colType)
}
