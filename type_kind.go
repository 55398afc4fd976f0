package hashledger

import (
	"fmt"
	"strings"
)

// Kind tells whether a transaction brings money in or takes it out.
type Kind int

const (
	// Income increases the balance.
	Income Kind = iota + 1
	// Expense decreases the balance.
	Expense
)

func (k Kind) String() string {
	switch k {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool { return k == Income || k == Expense }

// Sign returns +1 for Income, -1 for Expense and 0 otherwise.
func (k Kind) Sign() int {
	switch k {
	case Income:
		return 1
	case Expense:
		return -1
	default:
		return 0
	}
}

// ParseKind parses a kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("%w: unknown type %q, want Income or Expense", ErrInvalidTransaction, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: cannot marshal kind %d", ErrEncoding, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
