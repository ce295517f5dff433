package synth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Lumos-Labs-HQ/shopgen/internal/schema"
)

// TimeLayout is the literal YYYY-MM-DD HH:MM:SS format used in every artifact.
const TimeLayout = "2006-01-02 15:04:05"

// Cents is a monetary amount in hundredths. Totals are summed in cents so the
// two-decimal rendering is exact.
type Cents int64

func Whole(units int) Cents {
	return Cents(units) * 100
}

func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(c)/100, int64(c)%100)
}

func (c Cents) Float64() float64 {
	return float64(c) / 100
}

type Customer struct {
	ID        int
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

func (c Customer) Record() []string {
	return []string{strconv.Itoa(c.ID), c.Name, c.Email, c.Phone, c.CreatedAt.Format(TimeLayout)}
}

type Product struct {
	ID       int
	Name     string
	Category string
	Price    Cents
}

func (p Product) Record() []string {
	return []string{strconv.Itoa(p.ID), p.Name, p.Category, p.Price.String()}
}

type Order struct {
	ID          int
	CustomerID  int
	OrderDate   time.Time
	TotalAmount Cents
}

func (o Order) Record() []string {
	return []string{strconv.Itoa(o.ID), strconv.Itoa(o.CustomerID), o.OrderDate.Format(TimeLayout), o.TotalAmount.String()}
}

type OrderItem struct {
	ID        int
	OrderID   int
	ProductID int
	Quantity  int
	UnitPrice Cents
}

func (i OrderItem) LineTotal() Cents {
	return Cents(i.Quantity) * i.UnitPrice
}

func (i OrderItem) Record() []string {
	return []string{
		strconv.Itoa(i.ID),
		strconv.Itoa(i.OrderID),
		strconv.Itoa(i.ProductID),
		strconv.Itoa(i.Quantity),
		i.UnitPrice.String(),
	}
}

type Payment struct {
	ID          int
	OrderID     int
	Method      string
	Status      string
	PaymentDate time.Time
}

func (p Payment) Record() []string {
	return []string{strconv.Itoa(p.ID), strconv.Itoa(p.OrderID), p.Method, p.Status, p.PaymentDate.Format(TimeLayout)}
}

// Dataset holds the five collections of one generation run.
type Dataset struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Payments   []Payment
}

func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		schema.Customers:  len(d.Customers),
		schema.Products:   len(d.Products),
		schema.Orders:     len(d.Orders),
		schema.OrderItems: len(d.OrderItems),
		schema.Payments:   len(d.Payments),
	}
}
