package hashledger

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

// TestLedger_Summarize is the canonical scenario: 100 in, 30 out.
func TestLedger_Summarize(t *testing.T) {
	l := NewLedger()
	for _, tx := range []Transaction{
		NewTransaction(date.MustParse("2025-01-02"), "Consultation fees", Income, D("100")),
		NewTransaction(date.MustParse("2025-01-03"), "Medical supplies", Expense, D("30")),
	} {
		if _, err := l.Append(tx); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	s := l.Summarize()
	if !s.Income.Equal(INR(100)) {
		t.Errorf("Income = %v, want %v", s.Income, INR(100))
	}
	if !s.Expense.Equal(INR(30)) {
		t.Errorf("Expense = %v, want %v", s.Expense, INR(30))
	}
	if !s.Balance.Equal(INR(70)) {
		t.Errorf("Balance = %v, want %v", s.Balance, INR(70))
	}
	if got := s.Balance.Amount(); got != "70.00" {
		t.Errorf("Balance.Amount() = %q, want %q", got, "70.00")
	}
}

func TestLedger_AppendReturnsPosition(t *testing.T) {
	l := NewLedger()
	for want := 0; want < 3; want++ {
		got, err := l.Append(NewTransaction(date.MustParse("2025-01-02"), "", Income, D("1")))
		if err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		if got != want {
			t.Errorf("Append() = %d, want %d", got, want)
		}
	}
}

func TestLedger_AppendInvalid(t *testing.T) {
	l := NewLedger()
	if _, err := l.Append(NewTransaction(date.MustParse("2025-01-02"), "ok", Income, D("10"))); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	testCases := []struct {
		name string
		tx   Transaction
	}{
		{"negative amount", NewTransaction(date.MustParse("2025-01-02"), "refund", Income, D("-1"))},
		{"unknown type", NewTransaction(date.MustParse("2025-01-02"), "gift", Kind(7), D("1"))},
		{"missing date", NewTransaction(date.Date{}, "gift", Income, D("1"))},
		{"huge amount", NewTransaction(date.MustParse("2025-01-02"), "gift", Income, D("1e50000000"))},
		{"tiny amount", NewTransaction(date.MustParse("2025-01-02"), "gift", Income, D("1e-50000000"))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			index, err := l.Append(tc.tx)
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Fatalf("Append() error = %v, want ErrInvalidTransaction", err)
			}
			if index != -1 {
				t.Errorf("Append() index = %d, want -1", index)
			}
			if l.Len() != 1 {
				t.Errorf("ledger should still have 1 transaction, got %d", l.Len())
			}
			if s := l.Summarize(); !s.Balance.Equal(INR(10)) {
				t.Errorf("a rejected append changed the balance to %v", s.Balance)
			}
		})
	}
}

func TestLedger_TransactionsInInsertionOrder(t *testing.T) {
	l := NewLedger()
	// dates are not chronological on purpose: the ledger keeps append order.
	days := []string{"2025-03-01", "2025-01-01", "2025-02-01"}
	for _, day := range days {
		if _, err := l.Append(NewTransaction(date.MustParse(day), day, Expense, D("5"))); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	txs := l.Transactions()
	if len(txs) != len(days) {
		t.Fatalf("Transactions() returned %d transactions, want %d", len(txs), len(days))
	}
	for i, tx := range txs {
		if tx.Description != days[i] {
			t.Errorf("Transactions()[%d] = %q, want %q", i, tx.Description, days[i])
		}
		if !tx.Amount.Equal(D("5")) {
			t.Errorf("Transactions()[%d].Amount = %v, want the entered magnitude 5", i, tx.Amount)
		}
	}

	tx, err := l.Transaction(1)
	if err != nil || tx.Description != days[1] {
		t.Errorf("Transaction(1) = %v, %v, want %q", tx, err, days[1])
	}
	if _, err := l.Transaction(3); err == nil {
		t.Errorf("Transaction(3) succeeded, want out of range error")
	}
}

// TestLedger_SummarizeProperty checks balance == income - expense == sum of
// signed amounts over random sequences.
func TestLedger_SummarizeProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 50; run++ {
		l := NewLedger()
		sum := decimal.Zero
		n := rng.IntN(40)
		for i := 0; i < n; i++ {
			kind := Income
			if rng.IntN(2) == 0 {
				kind = Expense
			}
			amount := decimal.New(rng.Int64N(1_000_000), -2) // up to 9999.99
			tx := NewTransaction(date.MustParse("2025-01-01").Add(i), "random", kind, amount)
			if _, err := l.Append(tx); err != nil {
				t.Fatalf("Append() failed: %v", err)
			}
			sum = sum.Add(tx.Signed())
		}

		s := l.Summarize()
		if !s.Balance.Equal(s.Income.Sub(s.Expense)) {
			t.Errorf("run %d: balance %v != income %v - expense %v", run, s.Balance, s.Income, s.Expense)
		}
		if !s.Balance.Equal(M(sum, "INR")) {
			t.Errorf("run %d: balance %v != sum of signed amounts %v", run, s.Balance, sum)
		}
		if s.Expense.IsNegative() || s.Income.IsNegative() {
			t.Errorf("run %d: totals must be positive, got %v and %v", run, s.Income, s.Expense)
		}
	}
}

func TestTransaction_Signed(t *testing.T) {
	in := NewTransaction(date.MustParse("2025-01-01"), "", Income, D("12.5"))
	out := NewTransaction(date.MustParse("2025-01-01"), "", Expense, D("12.5"))

	if !in.Signed().Equal(D("12.5")) {
		t.Errorf("Income.Signed() = %v, want 12.5", in.Signed())
	}
	if !out.Signed().Equal(D("-12.5")) {
		t.Errorf("Expense.Signed() = %v, want -12.5", out.Signed())
	}
}

func TestParseKind(t *testing.T) {
	testCases := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "Income", want: Income},
		{input: "income", want: Income},
		{input: " EXPENSE ", want: Expense},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseKind(tc.input)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("ParseKind(%q) error = %v, want ErrInvalidTransaction", tc.input, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", tc.input, got, err, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount(" 1250.50 ")
	if err != nil || !got.Equal(D("1250.5")) {
		t.Errorf("ParseAmount(1250.50) = %v, %v", got, err)
	}
	for _, ok := range []string{"999999999999999.99999999", "0", "0.00000001", "1e14"} {
		if _, err := ParseAmount(ok); err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", ok, err)
		}
	}
	bads := []string{
		"-1", "abc", "",
		"1e50000000", "1e-50000000", // must be rejected before any expansion
		"1000000000000000", // 16 integer digits
		"0.000000001",      // 9 fraction digits
		"1e15",
	}
	for _, bad := range bads {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidTransaction", bad, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-1-2 ")
	if err != nil || got != date.MustParse("2025-01-02") {
		t.Errorf("ParseDate(2025-1-2) = %v, %v", got, err)
	}
	for _, bad := range []string{"", "yesterday", "2025-13-01"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidTransaction", bad, err)
		}
	}
}
