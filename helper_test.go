package hashledger

import (
	"time"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

// INR is a helper for test to create rupees from const.
func INR(v float64) Money { return M(v, "INR") }

// D is a helper for test to create a decimal from a string.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixedClock returns a clock stuck on the given day.
func fixedClock(day string) func() time.Time {
	on := date.MustParse(day)
	return func() time.Time { return time.Date(on.Year(), on.Month(), on.Day(), 9, 30, 0, 0, time.UTC) }
}

// newTestChain creates a chain with a fixed genesis date and three blocks.
func newTestChain(opts ...Option) *HashChain {
	c := NewHashChain(append([]Option{WithClock(fixedClock("2025-01-01"))}, opts...)...)
	for _, tx := range []Transaction{
		NewTransaction(date.MustParse("2025-01-02"), "Consultation fees", Income, D("100")),
		NewTransaction(date.MustParse("2025-01-03"), "Medical supplies", Expense, D("30")),
		NewTransaction(date.MustParse("2025-01-04"), "Lab tests", Income, D("45.50")),
	} {
		if _, err := c.AppendTransaction(tx); err != nil {
			panic(err)
		}
	}
	return c
}
