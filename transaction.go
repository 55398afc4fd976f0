package hashledger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

const (
	// MaxAmountDigits is the maximum number of digits of an amount's integer part.
	MaxAmountDigits = 15
	// MaxAmountScale is the maximum number of fraction digits of an amount.
	MaxAmountScale = 8
)

// Transaction is a single financial record as entered by the user.
//
// Amount is always the non-negative magnitude; the sign is carried by Kind.
type Transaction struct {
	Date        date.Date       `json:"date"`
	Description string          `json:"description,omitempty"`
	Kind        Kind            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewTransaction creates a new transaction. It is not validated.
func NewTransaction(on date.Date, description string, kind Kind, amount decimal.Decimal) Transaction {
	return Transaction{
		Date:        on,
		Description: description,
		Kind:        kind,
		Amount:      amount,
	}
}

// Validate checks that the transaction can be recorded.
// Errors wrap ErrInvalidTransaction.
func (tx Transaction) Validate() error {
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !tx.Kind.Valid() {
		return fmt.Errorf("%w: unknown type %d, want Income or Expense", ErrInvalidTransaction, int(tx.Kind))
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	if err := checkAmount(tx.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if !utf8.ValidString(tx.Description) {
		return fmt.Errorf("%w: description is not valid UTF-8", ErrInvalidTransaction)
	}
	return nil
}

// Signed returns the effective amount: positive for Income, negative for Expense.
func (tx Transaction) Signed() decimal.Decimal {
	return tx.Amount.Mul(decimal.NewFromInt(int64(tx.Kind.Sign())))
}

// ParseAmount parses a non-negative decimal amount like "1250.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid amount %q: %v", ErrInvalidTransaction, s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative amount %q", ErrInvalidTransaction, s)
	}
	if err := checkAmount(d); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidTransaction, s, err)
	}
	return d, nil
}

// ParseDate parses a transaction date like "2025-01-02".
func ParseDate(s string) (date.Date, error) {
	on, err := date.Parse(strings.TrimSpace(s))
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return on, nil
}

// checkAmount bounds the size of d without expanding it: an amount is hashed
// and rendered through its full decimal text.
func checkAmount(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if -exp > MaxAmountScale {
		return fmt.Errorf("more than %d fraction digits", MaxAmountScale)
	}
	digits := int64(len(d.Coefficient().String()))
	if d.IsNegative() {
		digits-- // the sign
	}
	if digits+exp > MaxAmountDigits {
		return fmt.Errorf("more than %d integer digits", MaxAmountDigits)
	}
	return nil
}
