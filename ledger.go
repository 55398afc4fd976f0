package hashledger

import (
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is a flat, append-only list of transactions, without chaining.
//
// In a Ledger transactions are kept in insertion order, which is also the
// display order.
type Ledger struct {
	mu           sync.RWMutex
	currency     string
	transactions []Transaction
	income       decimal.Decimal // running totals
	expense      decimal.Decimal
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	s := newSettings(opts)
	return &Ledger{
		currency:     s.currency,
		transactions: make([]Transaction, 0),
		income:       decimal.Zero,
		expense:      decimal.Zero,
	}
}

// Currency returns the currency used in summaries.
func (l *Ledger) Currency() string { return l.currency }

// Append validates and records tx at the end of the ledger, and returns its
// position. An invalid transaction leaves the ledger unchanged.
func (l *Ledger) Append(tx Transaction) (int, error) {
	if err := tx.Validate(); err != nil {
		return -1, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = append(l.transactions, tx)
	l.add(tx)
	return len(l.transactions) - 1, nil
}

// add updates the running totals. l.mu must be held.
func (l *Ledger) add(tx Transaction) {
	switch tx.Kind {
	case Income:
		l.income = l.income.Add(tx.Amount)
	case Expense:
		l.expense = l.expense.Add(tx.Amount)
	}
}

// Transactions returns a copy of all transactions in insertion order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.transactions)
}

// Transaction returns the transaction at position i.
func (l *Ledger) Transaction(i int) (Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.transactions) {
		return Transaction{}, fmt.Errorf("index %d out of range [0, %d)", i, len(l.transactions))
	}
	return l.transactions[i], nil
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// Summarize returns the total income, the total expense (as a positive
// value) and the balance.
func (l *Ledger) Summarize() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return newSummary(l.currency, l.income, l.expense)
}

// ExportCSV serializes the ledger as CSV with a header row. The Amount column
// holds the signed effective amount.
func (l *Ledger) ExportCSV() ([]byte, error) {
	return encodeLedgerCSV(l.Transactions())
}
