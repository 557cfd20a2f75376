package tag

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, params CreateTagParams) (*Tag, error)
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	Update(ctx context.Context, id string, params UpdateTagParams) (*Tag, error)
	// Delete removes a tag and re-parents its children to the deleted tag's
	// parent, atomically.
	Delete(ctx context.Context, id string) error
	// DescendantIDs returns the descendant closure of a tag: the tag itself
	// plus every tag transitively reachable through parent_id links.
	DescendantIDs(ctx context.Context, id string) ([]string, error)
	// SyncChildColors recolors every child tag to match its parent and
	// returns how many rows changed.
	SyncChildColors(ctx context.Context) (int64, error)
}
