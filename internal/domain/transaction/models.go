package transaction

import (
	"errors"
	"time"
)

// Transaction types
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Transaction statuses
const (
	StatusPending    = "pending"
	StatusCleared    = "cleared"
	StatusDuplicated = "duplicated"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrMissingTransferLegs = errors.New("transfer transactions require both from_account_id and to_account_id")
	ErrNoFieldsToUpdate    = errors.New("no valid fields to update")
)

// Transaction is one row of the ledger. A transfer exists as two rows, each
// pointing at the other through LinkedTransactionID: the outgoing leg
// (account_id = from_account_id, negative amount) and the incoming leg
// (account_id = to_account_id, positive amount).
type Transaction struct {
	ID                  string    `json:"id"`
	AccountID           string    `json:"account_id"`
	Date                time.Time `json:"date"`
	Description         string    `json:"description"`
	Amount              float64   `json:"amount"`
	Type                string    `json:"type"`
	Status              string    `json:"status"`
	Tags                []string  `json:"tags"`
	FromAccountID       *string   `json:"from_account_id,omitempty"`
	ToAccountID         *string   `json:"to_account_id,omitempty"`
	LinkedTransactionID *string   `json:"linked_transaction_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsTransferLeg reports whether the transaction belongs to a linked pair.
func (t *Transaction) IsTransferLeg() bool {
	return t.LinkedTransactionID != nil
}

// ListFilter narrows a ledger listing. TagIDs is the already-expanded
// descendant closure of the requested tag; a transaction matches when its tag
// set intersects it.
type ListFilter struct {
	TagIDs []string
	Search string
	Status string
}

type CreateParams struct {
	AccountID     string
	Date          time.Time
	Description   string
	Amount        float64
	Type          string
	Status        string
	Tags          []string
	FromAccountID *string
	ToAccountID   *string
}

func (p *CreateParams) Validate() error {
	switch p.Type {
	case TypeIncome, TypeExpense:
		if p.AccountID == "" {
			return errors.New("account_id is required")
		}
	case TypeTransfer:
		if p.FromAccountID == nil || p.ToAccountID == nil {
			return ErrMissingTransferLegs
		}
	default:
		return errors.New("type must be income, expense, or transfer")
	}
	switch p.Status {
	case StatusPending, StatusCleared, StatusDuplicated:
	default:
		return errors.New("status must be pending, cleared, or duplicated")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// UpdateParams carries a partial update. Nil fields are left unchanged.
// ID, timestamps, and the linked-pair pointer can never be updated here;
// linked rows are mirrored by the repository with the amount negated.
type UpdateParams struct {
	Date        *time.Time
	Description *string
	Amount      *float64
	Type        *string
	Status      *string
	Tags        []string // nil means unchanged; empty slice clears
}

func (p *UpdateParams) IsEmpty() bool {
	return p.Date == nil && p.Description == nil && p.Amount == nil &&
		p.Type == nil && p.Status == nil && p.Tags == nil
}

func (p *UpdateParams) Validate() error {
	if p.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if p.Type != nil {
		switch *p.Type {
		case TypeIncome, TypeExpense, TypeTransfer:
		default:
			return errors.New("type must be income, expense, or transfer")
		}
	}
	if p.Status != nil {
		switch *p.Status {
		case StatusPending, StatusCleared, StatusDuplicated:
		default:
			return errors.New("status must be pending, cleared, or duplicated")
		}
	}
	return nil
}

// Mirrored returns the params to apply to the other leg of a transfer pair:
// the amount is negated to preserve the pair's zero sum, everything else is
// copied verbatim.
func (p *UpdateParams) Mirrored() UpdateParams {
	m := *p
	if p.Amount != nil {
		negated := -*p.Amount
		m.Amount = &negated
	}
	return m
}
