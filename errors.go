package hashledger

import "errors"

var (
	// ErrInvalidTransaction is returned when a transaction is rejected: negative
	// amount, unknown type, missing date or a description that is not UTF-8.
	// The ledger or chain is left unchanged.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrEncoding is returned when records cannot be serialized or decoded.
	ErrEncoding = errors.New("encoding error")

	// ErrEmptyChain is returned when restoring a chain without any block.
	ErrEmptyChain = errors.New("empty chain")
)
