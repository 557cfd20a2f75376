package asset

import (
	"context"
	"errors"
)

// ErrPriceUnavailable signals that the source has no quote for the asset.
var ErrPriceUnavailable = errors.New("price unavailable")

// SearchResult is one match returned by a price source lookup.
type SearchResult struct {
	AssetID string `json:"asset_id"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// PriceSource resolves asset identifiers and quotes from an external
// market-data provider.
type PriceSource interface {
	// Search finds assets matching the query.
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// Price returns the current quote for the asset in the given currency.
	Price(ctx context.Context, assetID, currency string) (*Quote, error)
}

// Sources is a registry of price sources keyed by the api_source value
// stored on each asset.
type Sources map[string]PriceSource

func (s Sources) Get(name string) (PriceSource, error) {
	src, ok := s[name]
	if !ok {
		return nil, ErrUnknownSource
	}
	return src, nil
}
