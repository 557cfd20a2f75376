package account

import (
	"context"
)

// Service contains the business logic for account operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount creates a new account with business validation
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// GetAccount retrieves an account by ID
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// ListAccounts retrieves all accounts ordered by creation time
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

// DeleteAccount deletes an account. Transactions referencing the account are
// removed by the schema's cascade rule.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	return s.repo.Delete(ctx, id)
}

// AccountExists checks if an account exists
func (s *Service) AccountExists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}
