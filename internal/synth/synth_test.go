package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/shopgen/internal/schema"
)

func generate(t *testing.T, opts Options) *Dataset {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	ds, err := s.Generate(context.Background())
	require.NoError(t, err)
	return ds
}

func defaultOptions() Options {
	return Options{Customers: 60, Products: 30, Orders: 120, Seed: 42}
}

func TestGenerateCounts(t *testing.T) {
	ds := generate(t, defaultOptions())

	assert.Len(t, ds.Customers, 60)
	assert.Len(t, ds.Products, 30)
	assert.Len(t, ds.Orders, 120)
	assert.Len(t, ds.Payments, 120)
	assert.GreaterOrEqual(t, len(ds.OrderItems), 120)
	assert.LessOrEqual(t, len(ds.OrderItems), 480)

	counts := ds.Counts()
	assert.Equal(t, len(ds.OrderItems), counts[schema.OrderItems])
	assert.Equal(t, 60, counts[schema.Customers])
}

func TestIDsAreDenseAndSequential(t *testing.T) {
	ds := generate(t, defaultOptions())

	for i, c := range ds.Customers {
		assert.Equal(t, i+1, c.ID)
	}
	for i, p := range ds.Products {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, "Product "+strconv.Itoa(i+1), p.Name)
	}
	for i, o := range ds.Orders {
		assert.Equal(t, i+1, o.ID)
	}
	// item ids never reset between orders
	for i, item := range ds.OrderItems {
		assert.Equal(t, i+1, item.ID)
	}
}

func TestOrderTotalsEqualItemSums(t *testing.T) {
	ds := generate(t, defaultOptions())

	sums := make(map[int]Cents)
	counts := make(map[int]int)
	for _, item := range ds.OrderItems {
		sums[item.OrderID] += Cents(item.Quantity) * item.UnitPrice
		counts[item.OrderID]++
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.LessOrEqual(t, item.Quantity, 5)
	}
	for _, o := range ds.Orders {
		assert.Equal(t, sums[o.ID], o.TotalAmount, "order %d", o.ID)
		assert.GreaterOrEqual(t, counts[o.ID], 1)
		assert.LessOrEqual(t, counts[o.ID], 4)
	}
}

func TestForeignKeysResolve(t *testing.T) {
	ds := generate(t, defaultOptions())

	customers := make(map[int]bool)
	for _, c := range ds.Customers {
		customers[c.ID] = true
	}
	products := make(map[int]Cents)
	for _, p := range ds.Products {
		products[p.ID] = p.Price
	}
	orders := make(map[int]Order)
	for _, o := range ds.Orders {
		assert.True(t, customers[o.CustomerID], "order %d customer %d", o.ID, o.CustomerID)
		orders[o.ID] = o
	}
	for _, item := range ds.OrderItems {
		_, ok := orders[item.OrderID]
		assert.True(t, ok, "item %d order %d", item.ID, item.OrderID)
		price, ok := products[item.ProductID]
		require.True(t, ok, "item %d product %d", item.ID, item.ProductID)
		assert.Equal(t, price, item.UnitPrice)
	}
}

func TestPaymentsOnePerOrder(t *testing.T) {
	ds := generate(t, defaultOptions())

	orders := make(map[int]Order)
	for _, o := range ds.Orders {
		orders[o.ID] = o
	}
	seen := make(map[int]bool)
	statuses := map[string]bool{"paid": true, "failed": true, "pending": true}
	methods := map[string]bool{"card": true, "upi": true, "netbanking": true, "cod": true}

	for _, p := range ds.Payments {
		assert.False(t, seen[p.OrderID], "duplicate payment for order %d", p.OrderID)
		seen[p.OrderID] = true
		assert.Equal(t, p.OrderID, p.ID)

		o, ok := orders[p.OrderID]
		require.True(t, ok)
		delay := p.PaymentDate.Sub(o.OrderDate)
		assert.GreaterOrEqual(t, delay, time.Hour)
		assert.LessOrEqual(t, delay, 72*time.Hour)
		assert.Equal(t, time.Duration(0), delay%time.Hour)

		assert.True(t, statuses[p.Status], p.Status)
		assert.True(t, methods[p.Method], p.Method)
	}
	assert.Len(t, seen, len(ds.Orders))
}

func TestCustomerFields(t *testing.T) {
	opts := defaultOptions()
	ds := generate(t, opts)

	emailRe := regexp.MustCompile(`^[a-z]+\.[a-z]+\d+@example\.com$`)
	phoneRe := regexp.MustCompile(`^\+91\d{10}$`)
	earliest := DefaultAnchor.Add(-(1200*24*time.Hour + 23*time.Hour + 59*time.Minute))

	emails := make(map[string]bool)
	for _, c := range ds.Customers {
		assert.Regexp(t, emailRe, c.Email)
		assert.Equal(t, Email(c.Name, c.ID), c.Email)
		assert.False(t, emails[c.Email])
		emails[c.Email] = true

		assert.Regexp(t, phoneRe, c.Phone)
		assert.GreaterOrEqual(t, c.Phone, "+916000000000")

		assert.False(t, c.CreatedAt.After(DefaultAnchor))
		assert.False(t, c.CreatedAt.Before(earliest))
	}
}

func TestProductFields(t *testing.T) {
	ds := generate(t, defaultOptions())

	allowed := make(map[Cents]bool)
	for _, p := range priceList {
		allowed[Whole(p)] = true
	}
	for _, p := range ds.Products {
		assert.Contains(t, categories, p.Category)
		assert.True(t, allowed[p.Price], p.Price.String())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s, err := New(defaultOptions())
	require.NoError(t, err)

	first, err := s.Generate(context.Background())
	require.NoError(t, err)
	second, err := s.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := generate(t, Options{Customers: 60, Products: 30, Orders: 120, Seed: 7})
	assert.NotEqual(t, first.Customers, other.Customers)
}

func TestWriteCSVByteIdentical(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	_, err := generate(t, defaultOptions()).WriteCSV(dirA)
	require.NoError(t, err)
	artifacts, err := generate(t, defaultOptions()).WriteCSV(dirB)
	require.NoError(t, err)
	require.Len(t, artifacts, 5)

	for _, a := range artifacts {
		want, err := os.ReadFile(filepath.Join(dirA, filepath.Base(a.Path)))
		require.NoError(t, err)
		got, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, want, got, a.Table)
	}
}

func TestZeroOrdersWithNoReferents(t *testing.T) {
	ds := generate(t, Options{Seed: 1})
	assert.Empty(t, ds.Customers)
	assert.Empty(t, ds.Orders)
	assert.Empty(t, ds.OrderItems)
	assert.Empty(t, ds.Payments)

	ds = generate(t, Options{Customers: 3, Seed: 1})
	assert.Len(t, ds.Customers, 3)
	assert.Empty(t, ds.Payments)
}

func TestValidateRejectsImpossibleCounts(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want error
	}{
		{"negative customers", Options{Customers: -1}, ErrNegativeCount},
		{"negative orders", Options{Customers: 1, Products: 1, Orders: -5}, ErrNegativeCount},
		{"orders without customers", Options{Products: 3, Orders: 2}, ErrNoCustomers},
		{"orders without products", Options{Customers: 3, Orders: 2}, ErrNoProducts},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	s, err := New(defaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultAnchorApplied(t *testing.T) {
	s, err := New(Options{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultAnchor, s.Options().Anchor)
}
