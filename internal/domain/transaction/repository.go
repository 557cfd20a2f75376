package transaction

import (
	"context"
)

// Repository defines the interface for ledger data access. It is the only
// permitted mutation path for transfer pairs: every multi-row operation
// (pair creation, linked mirroring, linked deletion) happens inside a single
// database transaction in the implementation.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// Create inserts a single income or expense row.
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	// CreateTransferPair inserts both legs of a transfer and links them,
	// atomically. Returns the outgoing leg as the canonical representative.
	CreateTransferPair(ctx context.Context, params CreateParams) (*Transaction, error)
	// Update applies a partial update; when the row is one leg of a transfer
	// pair, the linked row receives the mirrored params in the same database
	// transaction.
	Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error)
	// Delete removes the row and, when linked, its partner, atomically.
	Delete(ctx context.Context, id string) error
	// DeleteMany removes all matching rows in one statement. Linked partners
	// of the listed ids are NOT cascaded; callers who want pair deletion use
	// Delete per id.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
