// Package schema declares the five tables produced by the synthesizer and
// consumed by the loader.
package schema

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/graph"
	"github.com/Lumos-Labs-HQ/shopgen/internal/types"
)

const (
	Customers  = "customers"
	Products   = "products"
	Orders     = "orders"
	OrderItems = "order_items"
	Payments   = "payments"
)

const (
	Integer = "INTEGER"
	Real    = "REAL"
	Text    = "TEXT"
)

func pk(name string) types.SchemaColumn {
	return types.SchemaColumn{Name: name, Type: Integer, IsPrimary: true}
}

func col(name, typ string) types.SchemaColumn {
	return types.SchemaColumn{Name: name, Type: typ, Nullable: true}
}

func fk(name, table, column string) types.SchemaColumn {
	return types.SchemaColumn{
		Name:             name,
		Type:             Integer,
		Nullable:         true,
		ForeignKeyTable:  table,
		ForeignKeyColumn: column,
	}
}

// Tables returns a fresh copy of the schema in declaration order.
func Tables() []types.SchemaTable {
	return []types.SchemaTable{
		{
			Name: Customers,
			Columns: []types.SchemaColumn{
				pk("customer_id"),
				col("name", Text),
				col("email", Text),
				col("phone", Text),
				col("created_at", Text),
			},
		},
		{
			Name: Products,
			Columns: []types.SchemaColumn{
				pk("product_id"),
				col("product_name", Text),
				col("category", Text),
				col("price", Real),
			},
		},
		{
			Name: Orders,
			Columns: []types.SchemaColumn{
				pk("order_id"),
				fk("customer_id", Customers, "customer_id"),
				col("order_date", Text),
				col("total_amount", Real),
			},
		},
		{
			Name: OrderItems,
			Columns: []types.SchemaColumn{
				pk("item_id"),
				fk("order_id", Orders, "order_id"),
				fk("product_id", Products, "product_id"),
				col("quantity", Integer),
				col("unit_price", Real),
			},
		},
		{
			Name: Payments,
			Columns: []types.SchemaColumn{
				pk("payment_id"),
				fk("order_id", Orders, "order_id"),
				col("payment_method", Text),
				col("payment_status", Text),
				col("payment_date", Text),
			},
		},
	}
}

func Table(name string) (types.SchemaTable, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return types.SchemaTable{}, false
}

// Columns returns the column names of a declared table in declaration order.
func Columns(name string) ([]string, bool) {
	t, ok := Table(name)
	if !ok {
		return nil, false
	}
	return t.ColumnNames(), true
}

func ArtifactName(table string) string {
	return table + ".csv"
}

// LoadOrder derives an insertion order in which every table follows the
// tables its foreign keys point at.
func LoadOrder() ([]types.SchemaTable, error) {
	tables := Tables()
	byName := make(map[string]types.SchemaTable, len(tables))

	g := graph.New()
	for _, t := range tables {
		byName[t.Name] = t
		g.Add(t.Name, t.Dependencies()...)
	}

	names, err := g.BuildOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order tables: %w", err)
	}

	ordered := make([]types.SchemaTable, len(names))
	for i, name := range names {
		ordered[i] = byName[name]
	}
	return ordered, nil
}
