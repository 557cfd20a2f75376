package account

import "context"

// Repository defines the interface for account data access.
// The interface lives in the domain layer; the implementation lives in the
// infrastructure layer.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
