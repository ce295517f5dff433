// Package synth fabricates the customers, products, orders, order items and
// payments of a synthetic shop with consistent foreign keys.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/shopgen/internal/logger"
)

var (
	ErrNegativeCount = errors.New("counts must not be negative")
	ErrNoCustomers   = errors.New("orders need at least one customer")
	ErrNoProducts    = errors.New("orders need at least one product")
)

// DefaultAnchor is the reference instant timestamps are backdated from unless
// the caller supplies another one.
var DefaultAnchor = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	customerHistoryDays = 1200
	orderHistoryDays    = 365
	minItemsPerOrder    = 1
	maxItemsPerOrder    = 4
	minQuantity         = 1
	maxQuantity         = 5
	minPaymentDelayH    = 1
	maxPaymentDelayH    = 72
)

type Options struct {
	Customers int
	Products  int
	Orders    int
	Seed      int64
	Anchor    time.Time
}

func (o Options) Validate() error {
	if o.Customers < 0 || o.Products < 0 || o.Orders < 0 {
		return fmt.Errorf("%w (customers=%d products=%d orders=%d)", ErrNegativeCount, o.Customers, o.Products, o.Orders)
	}
	if o.Orders > 0 && o.Customers == 0 {
		return ErrNoCustomers
	}
	if o.Orders > 0 && o.Products == 0 {
		return ErrNoProducts
	}
	return nil
}

type Synthesizer struct {
	opts     Options
	pipeline *pipeline
}

func New(opts Options) (*Synthesizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Anchor.IsZero() {
		opts.Anchor = DefaultAnchor
	}

	p, err := newPipeline(
		Stage{Name: stageCustomers, Run: genCustomers},
		Stage{Name: stageProducts, Run: genProducts},
		Stage{Name: stageOrders, Requires: []string{stageCustomers, stageProducts}, Run: genOrders},
		Stage{Name: stagePayments, Requires: []string{stageOrders}, Run: genPayments},
	)
	if err != nil {
		return nil, err
	}

	return &Synthesizer{opts: opts, pipeline: p}, nil
}

func (s *Synthesizer) Options() Options {
	return s.opts
}

// Generate runs every stage with a freshly seeded source, so repeated calls
// return identical datasets.
func (s *Synthesizer) Generate(ctx context.Context) (*Dataset, error) {
	st := newRunState(s.opts)
	if err := s.pipeline.run(ctx, st); err != nil {
		return nil, err
	}
	logger.InfoLogger.WithField("seed", s.opts.Seed).Debug("dataset generated")
	return st.data, nil
}

func genCustomers(st *runState) error {
	st.data.Customers = make([]Customer, 0, st.opts.Customers)
	for i := 0; i < st.opts.Customers; i++ {
		id := st.nextID(stageCustomers)
		name := st.gen.Name()
		st.data.Customers = append(st.data.Customers, Customer{
			ID:        id,
			Name:      name,
			Email:     Email(name, id),
			Phone:     st.gen.Phone(),
			CreatedAt: st.gen.Backdate(customerHistoryDays),
		})
	}
	return nil
}

func genProducts(st *runState) error {
	st.data.Products = make([]Product, 0, st.opts.Products)
	for i := 0; i < st.opts.Products; i++ {
		id := st.nextID(stageProducts)
		st.data.Products = append(st.data.Products, Product{
			ID:       id,
			Name:     fmt.Sprintf("Product %d", id),
			Category: st.gen.Category(),
			Price:    st.gen.Price(),
		})
	}
	return nil
}

func genOrders(st *runState) error {
	customers, products := st.data.Customers, st.data.Products
	if st.opts.Orders > 0 && (len(customers) == 0 || len(products) == 0) {
		return fmt.Errorf("cannot build orders from %d customers and %d products", len(customers), len(products))
	}

	st.data.Orders = make([]Order, 0, st.opts.Orders)
	for i := 0; i < st.opts.Orders; i++ {
		orderID := st.nextID(stageOrders)
		cust := customers[st.gen.rand.Intn(len(customers))]
		orderDate := st.gen.Backdate(orderHistoryDays)

		var total Cents
		n := st.gen.IntRange(minItemsPerOrder, maxItemsPerOrder)
		for j := 0; j < n; j++ {
			prod := products[st.gen.rand.Intn(len(products))]
			item := OrderItem{
				ID:        st.nextID(itemSequence),
				OrderID:   orderID,
				ProductID: prod.ID,
				Quantity:  st.gen.IntRange(minQuantity, maxQuantity),
				UnitPrice: prod.Price,
			}
			st.data.OrderItems = append(st.data.OrderItems, item)
			total += item.LineTotal()
		}

		st.data.Orders = append(st.data.Orders, Order{
			ID:          orderID,
			CustomerID:  cust.ID,
			OrderDate:   orderDate,
			TotalAmount: total,
		})
	}
	return nil
}

func genPayments(st *runState) error {
	st.data.Payments = make([]Payment, 0, len(st.data.Orders))
	for _, o := range st.data.Orders {
		delay := time.Duration(st.gen.IntRange(minPaymentDelayH, maxPaymentDelayH)) * time.Hour
		st.data.Payments = append(st.data.Payments, Payment{
			ID:          o.ID,
			OrderID:     o.ID,
			Method:      st.gen.PaymentMethod(),
			Status:      st.gen.PaymentStatus(),
			PaymentDate: o.OrderDate.Add(delay),
		})
	}
	return nil
}
