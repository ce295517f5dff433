// Package report runs the order line join over a loaded store.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database"
	"github.com/Masterminds/squirrel"
	"github.com/spf13/cast"
)

const DefaultLimit = 10

var Columns = []string{
	"name", "order_id", "product_name", "quantity", "unit_price",
	"item_total", "payment_method", "payment_status",
}

// Row is one order line joined to its customer, product and payment. Payment
// fields are nil when the order has no payment.
type Row struct {
	Name          string
	OrderID       int64
	ProductName   string
	Quantity      int64
	UnitPrice     float64
	ItemTotal     float64
	PaymentMethod *string
	PaymentStatus *string
}

// JoinQuery builds the order line join. Rows are ordered by order and item so
// every dialect returns the same page.
func JoinQuery(qb squirrel.StatementBuilderType, limit uint64) squirrel.SelectBuilder {
	return qb.Select(
		"c.name",
		"o.order_id",
		"p.product_name",
		"oi.quantity",
		"oi.unit_price",
		"(oi.quantity * oi.unit_price) AS item_total",
		"pay.payment_method",
		"pay.payment_status",
	).
		From("orders o").
		Join("customers c ON o.customer_id = c.customer_id").
		Join("order_items oi ON oi.order_id = o.order_id").
		Join("products p ON p.product_id = oi.product_id").
		LeftJoin("payments pay ON pay.order_id = o.order_id").
		OrderBy("o.order_id", "oi.item_id").
		Limit(limit)
}

func Run(ctx context.Context, adapter database.DatabaseAdapter) ([]Row, error) {
	query, args, err := JoinQuery(adapter.QueryBuilder(), DefaultLimit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	result, err := adapter.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(result.Rows))
	for i, raw := range result.Rows {
		row, err := toRow(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRow(raw map[string]interface{}) (Row, error) {
	var (
		row Row
		err error
	)
	if row.Name, err = cast.ToStringE(raw["name"]); err != nil {
		return row, fmt.Errorf("name: %w", err)
	}
	if row.OrderID, err = cast.ToInt64E(raw["order_id"]); err != nil {
		return row, fmt.Errorf("order_id: %w", err)
	}
	if row.ProductName, err = cast.ToStringE(raw["product_name"]); err != nil {
		return row, fmt.Errorf("product_name: %w", err)
	}
	if row.Quantity, err = cast.ToInt64E(raw["quantity"]); err != nil {
		return row, fmt.Errorf("quantity: %w", err)
	}
	if row.UnitPrice, err = cast.ToFloat64E(raw["unit_price"]); err != nil {
		return row, fmt.Errorf("unit_price: %w", err)
	}
	if row.ItemTotal, err = cast.ToFloat64E(raw["item_total"]); err != nil {
		return row, fmt.Errorf("item_total: %w", err)
	}
	row.PaymentMethod = nullable(raw["payment_method"])
	row.PaymentStatus = nullable(raw["payment_status"])
	return row, nil
}

func nullable(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

func (r Row) values() []string {
	return []string{
		r.Name,
		cast.ToString(r.OrderID),
		r.ProductName,
		cast.ToString(r.Quantity),
		fmt.Sprintf("%.2f", r.UnitPrice),
		fmt.Sprintf("%.2f", r.ItemTotal),
		deref(r.PaymentMethod),
		deref(r.PaymentStatus),
	}
}

func deref(s *string) string {
	if s == nil {
		return "NULL"
	}
	return *s
}

// Print renders rows as a box-drawn table. Nothing is written for an empty result.
func Print(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(Columns))
	for i, col := range Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = row.values()
		for i, val := range cells[r] {
			if n := len([]rune(val)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	rule := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, width := range widths {
			fmt.Fprint(w, strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(values []string) {
		fmt.Fprint(w, "│")
		for i, val := range values {
			fmt.Fprintf(w, " %-*s │", widths[i], val)
		}
		fmt.Fprintln(w)
	}

	rule("┌", "┬", "┐")
	line(Columns)
	rule("├", "┼", "┤")
	for _, values := range cells {
		line(values)
	}
	rule("└", "┴", "┘")
}
