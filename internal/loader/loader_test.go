package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/shopgen/internal/schema"
	"github.com/Lumos-Labs-HQ/shopgen/internal/synth"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, dir string, customers, products, orders int) *synth.Dataset {
	t.Helper()
	s, err := synth.New(synth.Options{Customers: customers, Products: products, Orders: orders, Seed: 42})
	require.NoError(t, err)
	ds, err := s.Generate(context.Background())
	require.NoError(t, err)
	_, err = ds.WriteCSV(dir)
	require.NoError(t, err)
	return ds
}

func openSQLite(t *testing.T, path string) *sqlite.Adapter {
	t.Helper()
	a := sqlite.New()
	require.NoError(t, a.Connect(context.Background(), "sqlite://"+path))
	t.Cleanup(func() { a.Close() })
	return a
}

func newLoader(a *sqlite.Adapter, dir string) (*Loader, *bytes.Buffer) {
	var out bytes.Buffer
	l := New(a, dir)
	l.SetOutput(&out)
	return l, &out
}

func TestLoadMatchesArtifacts(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	ds := generate(t, dataDir, 60, 30, 120)

	l, out := newLoader(openSQLite(t, filepath.Join(tmp, "ecom.db")), dataDir)
	loads, err := l.Load(ctx)
	require.NoError(t, err)

	counts := ds.Counts()
	var names []string
	for _, load := range loads {
		names = append(names, load.Table)
		assert.Equal(t, int64(counts[load.Table]), load.Rows, load.Table)
	}
	assert.Equal(t, []string{schema.Customers, schema.Products, schema.Orders, schema.OrderItems, schema.Payments}, names)
	assert.Contains(t, out.String(), "Loaded 60 rows into customers")
	assert.Contains(t, out.String(), "Loaded 120 rows into payments")

	checks, err := l.Verify(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 5)
	for _, check := range checks {
		assert.True(t, check.Match(), "%s: artifact %d stored %d", check.Table, check.Artifact, check.Stored)
	}
}

func TestLoadCoercesColumnTypes(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	ds := generate(t, dataDir, 5, 5, 5)

	a := openSQLite(t, filepath.Join(tmp, "ecom.db"))
	l, _ := newLoader(a, dataDir)
	_, err := l.Load(ctx)
	require.NoError(t, err)

	res, err := a.ExecuteQuery(ctx, "SELECT typeof(order_id) AS id_type, typeof(total_amount) AS total_type, typeof(order_date) AS date_type, total_amount FROM orders WHERE order_id = 1")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "integer", row["id_type"])
	assert.Equal(t, "real", row["total_type"])
	assert.Equal(t, "text", row["date_type"])
	assert.InDelta(t, ds.Orders[0].TotalAmount.Float64(), row["total_amount"], 0.001)
}

func TestLoadMissingDirectory(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "ecom.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("keep"), 0644))

	l, _ := newLoader(openSQLite(t, dbPath), filepath.Join(tmp, "nope"))
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))

	content, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(content))
}

func TestCheckInputs(t *testing.T) {
	tmp := t.TempDir()
	assert.ErrorIs(t, CheckInputs(filepath.Join(tmp, "nope")), ErrMissingInput)

	file := filepath.Join(tmp, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.ErrorIs(t, CheckInputs(file), ErrMissingInput)

	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 2, 2, 2)
	assert.NoError(t, CheckInputs(dataDir))

	require.NoError(t, os.Remove(filepath.Join(dataDir, "order_items.csv")))
	err := CheckInputs(dataDir)
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "order_items.csv")
}

func TestLoadMissingArtifact(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 3, 3, 3)
	require.NoError(t, os.Remove(filepath.Join(dataDir, "payments.csv")))

	l, _ := newLoader(openSQLite(t, filepath.Join(tmp, "ecom.db")), dataDir)
	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestLoadStopsOnCoercionFailure(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 4, 4, 4)

	path := filepath.Join(dataDir, "orders.csv")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(content), "\n")
	fields := strings.Split(lines[2], ",")
	fields[3] = "lots"
	lines[2] = strings.Join(fields, ",")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))

	a := openSQLite(t, filepath.Join(tmp, "ecom.db"))
	l, _ := newLoader(a, dataDir)
	loads, err := l.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCoercion)

	var coercion *CoercionError
	require.True(t, errors.As(err, &coercion))
	assert.Equal(t, schema.Orders, coercion.Table)
	assert.Equal(t, 3, coercion.Line)
	assert.Equal(t, "total_amount", coercion.Column)
	assert.Equal(t, "lots", coercion.Value)

	require.Len(t, loads, 2)
	customers, err := a.CountRows(ctx, schema.Customers)
	require.NoError(t, err)
	assert.Equal(t, int64(4), customers)
	orders, err := a.CountRows(ctx, schema.Orders)
	require.NoError(t, err)
	assert.Zero(t, orders)
}

func TestLoadFollowsHeaderPositions(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 2, 2, 0)

	products := "price,category,product_name,product_id\n149.00,Books,Widget 1,1\n99.00,Toys,Widget 2,2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "products.csv"), []byte(products), 0644))

	a := openSQLite(t, filepath.Join(tmp, "ecom.db"))
	l, _ := newLoader(a, dataDir)
	_, err := l.Load(ctx)
	require.NoError(t, err)

	res, err := a.ExecuteQuery(ctx, "SELECT product_name, price FROM products WHERE product_id = 2")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Widget 2", res.Rows[0]["product_name"])
	assert.Equal(t, 99.0, res.Rows[0]["price"])
}

func TestLoadRejectsMissingHeaderColumn(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 2, 2, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "products.csv"), []byte("product_id,price\n1,9.00\n"), 0644))

	l, _ := newLoader(openSQLite(t, filepath.Join(tmp, "ecom.db")), dataDir)
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column product_name")
}

func TestReloadReplacesPreviousData(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	a := openSQLite(t, filepath.Join(tmp, "ecom.db"))

	generate(t, dataDir, 10, 5, 20)
	l, _ := newLoader(a, dataDir)
	_, err := l.Load(ctx)
	require.NoError(t, err)

	generate(t, dataDir, 3, 2, 4)
	_, err = l.Load(ctx)
	require.NoError(t, err)

	count, err := a.CountRows(ctx, schema.Customers)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCoerce(t *testing.T) {
	orders, _ := schema.Table(schema.Orders)
	v, err := coerce(orders.Columns[0], "17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), v)

	v, err = coerce(orders.Columns[3], "120.50")
	require.NoError(t, err)
	assert.Equal(t, 120.5, v)

	v, err = coerce(orders.Columns[2], "2024-05-01 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:00:00", v)

	v, err = coerce(orders.Columns[3], "")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = coerce(orders.Columns[0], "")
	assert.Error(t, err)
}

func TestVerifyReportsDanglingForeignKeys(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	generate(t, dataDir, 5, 5, 30)

	a := openSQLite(t, filepath.Join(tmp, "ecom.db"))
	l, _ := newLoader(a, dataDir)
	_, err := l.Load(ctx)
	require.NoError(t, err)

	_, err = a.ExecuteQuery(ctx, "DELETE FROM products")
	require.NoError(t, err)

	checks, err := l.Verify(ctx)
	require.NoError(t, err)

	byTable := make(map[string]TableCheck)
	for _, c := range checks {
		byTable[c.Table] = c
	}
	assert.False(t, byTable[schema.Products].Match())
	assert.Zero(t, byTable[schema.Products].Stored)
	assert.Greater(t, byTable[schema.OrderItems].Orphans, int64(0))
	assert.False(t, byTable[schema.OrderItems].Match())
	assert.True(t, byTable[schema.Orders].Match())
	assert.True(t, byTable[schema.Payments].Match())
}

func TestOrphanQuery(t *testing.T) {
	items, _ := schema.Table(schema.OrderItems)
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	query, args, err := OrphanQuery(qb, items.Name, items.Columns[2]).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t, "SELECT COUNT(*) AS orphans FROM order_items c LEFT JOIN products p ON p.product_id = c.product_id WHERE (c.product_id IS NOT NULL AND p.product_id IS NULL)", query)
}
