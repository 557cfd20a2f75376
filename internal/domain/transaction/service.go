package transaction

import (
	"context"
	"log"
	"math"
)

// TagExpander resolves a tag to its descendant closure (the tag itself plus
// all transitive children). Satisfied by the tag service.
type TagExpander interface {
	DescendantIDs(ctx context.Context, id string) ([]string, error)
}

// Service contains the business logic for ledger operations
type Service struct {
	repo Repository
	tags TagExpander
}

func NewService(repo Repository, tags TagExpander) *Service {
	return &Service{repo: repo, tags: tags}
}

// Filter is the caller-facing listing filter; TagID is expanded to the full
// descendant subtree before hitting the repository.
type Filter struct {
	TagID  string
	Search string
	Status string
}

// List returns ledger rows matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Transaction, error) {
	repoFilter := ListFilter{Search: f.Search, Status: f.Status}

	if f.TagID != "" && f.TagID != "all" {
		ids, err := s.tags.DescendantIDs(ctx, f.TagID)
		if err != nil {
			return nil, err
		}
		repoFilter.TagIDs = ids
	}

	return s.repo.List(ctx, repoFilter)
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

// Create inserts a single row, or an atomically linked pair for transfers.
// Transfer amounts are normalized: the outgoing leg stores -|amount|, the
// incoming leg +|amount|, regardless of the sign the caller sent.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.Status == "" {
		params.Status = StatusPending
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Type == TypeTransfer {
		params.Amount = math.Abs(params.Amount)
		return s.repo.CreateTransferPair(ctx, params)
	}
	return s.repo.Create(ctx, params)
}

// Update applies a partial update to one row; linked-pair mirroring is done
// by the repository inside the same database transaction.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

// Delete removes a transaction; a linked transfer partner goes with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrTransactionNotFound
	}
	return s.repo.Delete(ctx, id)
}

// BulkDelete removes all listed ids in one statement. Linked partners are
// not cascaded here; a bulk selection is taken literally.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteMany(ctx, ids)
}

// BulkUpdate applies the same partial update to each id in turn. The batch is
// not atomic: a failure leaves earlier updates in place, and the failed ids
// are reported back to the caller.
func (s *Service) BulkUpdate(ctx context.Context, ids []string, params UpdateParams) ([]*Transaction, []string, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	var updated []*Transaction
	var failed []string
	for _, id := range ids {
		txn, err := s.repo.Update(ctx, id, params)
		if err != nil || txn == nil {
			if err != nil {
				log.Printf("Bulk update failed for transaction %s: %v", id, err)
			}
			failed = append(failed, id)
			continue
		}
		updated = append(updated, txn)
	}
	return updated, failed, nil
}
