package server

import (
	"encoding/json"

	"github.com/etnz/hashledger"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateTransactionRequest is the body of POST /transactions.
//
// Amount is a positive decimal, as a JSON number or string. Type is Income or
// Expense, case insensitive.
type CreateTransactionRequest struct {
	Date        string      `json:"date" binding:"required,ledgerdate"`
	Description string      `json:"description" binding:"max=1024"`
	Type        string      `json:"type" binding:"required,kind"`
	Amount      json.Number `json:"amount" binding:"required,amount"`
}

// Transaction converts the request, already validated by binding.
func (r CreateTransactionRequest) Transaction() (hashledger.Transaction, error) {
	on, err := hashledger.ParseDate(r.Date)
	if err != nil {
		return hashledger.Transaction{}, err
	}
	kind, err := hashledger.ParseKind(r.Type)
	if err != nil {
		return hashledger.Transaction{}, err
	}
	amount, err := hashledger.ParseAmount(r.Amount.String())
	if err != nil {
		return hashledger.Transaction{}, err
	}
	return hashledger.NewTransaction(on, r.Description, kind, amount), nil
}

// BlocksResponse is the body of GET /blocks.
type BlocksResponse struct {
	Currency string             `json:"currency"`
	Scheme   string             `json:"scheme"`
	Blocks   []hashledger.Block `json:"blocks"`
}

// registerValidations adds the ledger specific rules to v.
func registerValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"ledgerdate": func(fl validator.FieldLevel) bool {
			_, err := hashledger.ParseDate(fl.Field().String())
			return err == nil
		},
		"kind": func(fl validator.FieldLevel) bool {
			_, err := hashledger.ParseKind(fl.Field().String())
			return err == nil
		},
		"amount": func(fl validator.FieldLevel) bool {
			_, err := hashledger.ParseAmount(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
