package tag

import (
	"context"
	"slices"
)

// Service contains the business logic for tag operations. All parent
// re-assignment goes through here so the forest stays acyclic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateTag(ctx context.Context, params CreateTagParams) (*Tag, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *params.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetTag(ctx context.Context, id string) (*Tag, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListTags(ctx context.Context) ([]*Tag, error) {
	return s.repo.List(ctx)
}

// UpdateTag applies a partial update. Re-parenting is validated against the
// tag's own descendant closure so a tag can never become its own ancestor.
func (s *Service) UpdateTag(ctx context.Context, id string, params UpdateTagParams) (*Tag, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTagNotFound
	}

	if params.ParentID != nil && !params.ClearParent {
		if *params.ParentID == id {
			return nil, ErrCyclicParent
		}
		parent, err := s.repo.GetByID(ctx, *params.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		descendants, err := s.repo.DescendantIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		if slices.Contains(descendants, *params.ParentID) {
			return nil, ErrCyclicParent
		}
	}

	return s.repo.Update(ctx, id, params)
}

// DeleteTag removes a tag. Children are promoted to the deleted tag's parent
// rather than orphaned; the repository performs both steps atomically.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTagNotFound
	}
	return s.repo.Delete(ctx, id)
}

// DescendantIDs exposes the closure used by transaction subtree filtering.
func (s *Service) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	return s.repo.DescendantIDs(ctx, id)
}

// SyncChildColors recolors every child to its parent's color and reports how
// many tags changed. Invoked on demand as a maintenance operation.
func (s *Service) SyncChildColors(ctx context.Context) (int64, error) {
	return s.repo.SyncChildColors(ctx)
}
