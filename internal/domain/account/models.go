package account

import (
	"errors"
	"time"

	"github.com/Rhymond/go-money"
)

// Allowed account types
var accountTypes = map[string]struct{}{
	"bank":       {},
	"credit":     {},
	"savings":    {},
	"investment": {},
}

// Domain errors
var (
	ErrNameRequired       = errors.New("account name is required")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidCurrency    = errors.New("valid ISO 4217 currency is required")
	ErrAccountNotFound    = errors.New("account not found")
)

// Account represents a financial account. Balance is never stored; it is
// derived from the transaction ledger (or asset holdings for investment
// accounts) on every read.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	Name     string
	Type     string
	Currency string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !IsValidAccountType(p.Type) {
		return ErrInvalidAccountType
	}
	if !IsValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}

// IsValidCurrency checks if the provided code is a known ISO 4217 currency.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	return money.GetCurrency(c) != nil
}
