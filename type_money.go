package hashledger

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used when none is configured.
const DefaultCurrency = "INR"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates Money from a numeric value and an ISO currency code.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	var d decimal.Decimal
	switch v := any(value).(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	}
	return Money{value: d, cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// maxMinor is the largest amount of minor units go-money can format.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// String returns the money value with its currency symbol and grouping, e.g. "₹1,234.56".
func (m Money) String() string {
	cur := m.currency()
	f := cur.Formatter()
	minor := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if minor.Abs().LessThanOrEqual(maxMinor) {
		return f.Format(minor.IntPart())
	}
	return formatMinor(f, minor)
}

// formatMinor formats minor units like money.Formatter.Format, without the
// int64 limit.
func formatMinor(f *money.Formatter, minor decimal.Decimal) string {
	sa := minor.Abs().String()
	if len(sa) <= f.Fraction {
		sa = strings.Repeat("0", f.Fraction-len(sa)+1) + sa
	}
	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}

// Amount returns the value rounded to the currency's fraction, without symbol.
func (m Money) Amount() string {
	return m.value.StringFixed(int32(m.currency().Fraction))
}

func (m Money) Currency() string   { return m.cur }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) Add(n Money) Money  { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money  { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.IsZero() {
		return "-"
	}
	if m.IsNegative() {
		return m.String()
	}
	return "+" + m.String()
}

// MarshalJSON writes money as an object with its currency and a fixed point amount.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.Amount())
	return w.MarshalJSON()
}

// Summary holds the aggregated figures of a set of transactions.
type Summary struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"` // absolute value of all expenses
	Balance Money `json:"balance"`
}

// summarize computes a Summary over the given transactions.
func summarize(currency string, txs []Transaction) Summary {
	s := Summary{Income: M(0, currency), Expense: M(0, currency)}
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			s.Income = s.Income.Add(M(tx.Amount, currency))
		case Expense:
			s.Expense = s.Expense.Add(M(tx.Amount, currency))
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

func newSummary(currency string, income, expense decimal.Decimal) Summary {
	in, out := M(income, currency), M(expense, currency)
	return Summary{
		Income:  in,
		Expense: out,
		Balance: in.Sub(out),
	}
}
