package asset

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service coordinates investment accounts, their assets and the external
// price sources.
type Service struct {
	repo    Repository
	sources Sources
	now     func() time.Time
}

func NewService(repo Repository, sources Sources) *Service {
	return &Service{repo: repo, sources: sources, now: time.Now}
}

func (s *Service) CreateInvestmentAccount(ctx context.Context, name, currency string) (*InvestmentAccount, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if currency == "" {
		currency = "USD"
	}
	return s.repo.CreateInvestmentAccount(ctx, name, currency)
}

func (s *Service) ListInvestmentAccounts(ctx context.Context) ([]*InvestmentAccount, error) {
	return s.repo.ListInvestmentAccounts(ctx)
}

func (s *Service) AddAsset(ctx context.Context, investmentAccountID string, params AddAssetParams) (*Asset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.sources.Get(params.APISource); err != nil {
		return nil, err
	}
	if _, err := s.repo.AccountCurrency(ctx, investmentAccountID); err != nil {
		return nil, err
	}
	return s.repo.AddAsset(ctx, investmentAccountID, params)
}

func (s *Service) UpdateAssetAmount(ctx context.Context, id string, amount float64) (*Asset, error) {
	if amount < 0 {
		return nil, errors.New("amount must not be negative")
	}
	return s.repo.UpdateAssetAmount(ctx, id, amount)
}

func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	return s.repo.DeleteAsset(ctx, id)
}

// SetManualPrice records a user-supplied quote for today.
func (s *Service) SetManualPrice(ctx context.Context, id string, price float64) (*Asset, error) {
	if price < 0 {
		return nil, errors.New("price must not be negative")
	}
	return s.repo.SetAssetPrice(ctx, id, price, s.now().UTC())
}

// RefreshPrice fetches the current quote for the asset from its source and
// persists it. A quote already stored today is returned as-is without
// hitting the source.
func (s *Service) RefreshPrice(ctx context.Context, id string) (*Asset, error) {
	a, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if a.LastPrice != nil && a.LastPriceDate != nil && sameDay(*a.LastPriceDate, now) {
		return a, nil
	}

	src, err := s.sources.Get(a.APISource)
	if err != nil {
		return nil, err
	}
	currency, err := s.repo.AccountCurrency(ctx, a.AccountID)
	if err != nil {
		return nil, err
	}
	quote, err := src.Price(ctx, a.AssetID, currency)
	if err != nil {
		return nil, fmt.Errorf("fetching price for %s: %w", a.Symbol, err)
	}
	return s.repo.SetAssetPrice(ctx, id, quote.Price, now)
}

// Search proxies an asset lookup to the named source.
func (s *Service) Search(ctx context.Context, source, query string) ([]SearchResult, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	src, err := s.sources.Get(source)
	if err != nil {
		return nil, err
	}
	return src.Search(ctx, query)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
