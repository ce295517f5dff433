package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var (
	firstNames = []string{
		"Alex", "Sam", "Priya", "Ravi", "Maya", "John", "Sara", "Nina", "Arjun", "Leah",
		"Isha", "Vikram", "Omar", "Zara", "Liam", "Noah", "Emma", "Olivia", "Ava", "Lucas",
	}
	lastNames = []string{
		"Patel", "Shah", "Singh", "Kumar", "Smith", "Johnson", "Garcia",
		"Khan", "Das", "Mehta", "Thomas", "Lee", "Wong", "Fernandez",
	}
	categories     = []string{"Books", "Electronics", "Kitchen", "Clothing", "Toys", "Beauty", "Sports"}
	priceList      = []int{99, 149, 199, 249, 299, 349, 399, 499, 599, 799}
	paymentMethods = []string{"card", "upi", "netbanking", "cod"}

	paymentStatuses = MustWeighted(
		[]string{"paid", "failed", "pending"},
		[]float64{0.80, 0.05, 0.15},
	)
)

const (
	emailDomain = "example.com"
	phonePrefix = "+91"
	phoneMin    = 6000000000
	phoneMax    = 9999999999
)

// DataGenerator draws every random value of a run from one seeded source.
// Timestamps are backdated from anchor rather than the wall clock.
type DataGenerator struct {
	rand   *rand.Rand
	anchor time.Time
}

func NewDataGenerator(seed int64, anchor time.Time) *DataGenerator {
	return &DataGenerator{
		rand:   rand.New(rand.NewSource(seed)),
		anchor: anchor,
	}
}

// IntRange returns a uniform integer in [lo, hi].
func (g *DataGenerator) IntRange(lo, hi int) int {
	return lo + g.rand.Intn(hi-lo+1)
}

func (g *DataGenerator) Name() string {
	return firstNames[g.rand.Intn(len(firstNames))] + " " + lastNames[g.rand.Intn(len(lastNames))]
}

func (g *DataGenerator) Phone() string {
	return fmt.Sprintf("%s%d", phonePrefix, phoneMin+g.rand.Int63n(phoneMax-phoneMin+1))
}

func (g *DataGenerator) Category() string {
	return categories[g.rand.Intn(len(categories))]
}

func (g *DataGenerator) Price() Cents {
	return Whole(priceList[g.rand.Intn(len(priceList))])
}

func (g *DataGenerator) PaymentMethod() string {
	return paymentMethods[g.rand.Intn(len(paymentMethods))]
}

func (g *DataGenerator) PaymentStatus() string {
	return paymentStatuses.Pick(g.rand)
}

// Backdate returns anchor minus up to daysBack days, 23 hours and 59 minutes.
func (g *DataGenerator) Backdate(daysBack int) time.Time {
	days := g.rand.Intn(daysBack + 1)
	hours := g.rand.Intn(24)
	minutes := g.rand.Intn(60)
	delta := time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	return g.anchor.Add(-delta)
}

// Email derives a unique address from a possibly repeated name and the
// entity's sequence number.
func Email(name string, seq int) string {
	base := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	return fmt.Sprintf("%s%d@%s", base, seq, emailDomain)
}
