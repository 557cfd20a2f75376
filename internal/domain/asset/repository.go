package asset

import (
	"context"
	"time"
)

// Repository persists investment accounts, their assets and the daily
// worth-history snapshots.
type Repository interface {
	// CreateInvestmentAccount creates both the base account row and its
	// investment extension atomically.
	CreateInvestmentAccount(ctx context.Context, name, currency string) (*InvestmentAccount, error)
	ListInvestmentAccounts(ctx context.Context) ([]*InvestmentAccount, error)
	// AccountCurrency returns the currency of the investment account,
	// or ErrInvestmentAccountNotFound.
	AccountCurrency(ctx context.Context, investmentAccountID string) (string, error)

	AddAsset(ctx context.Context, investmentAccountID string, params AddAssetParams) (*Asset, error)
	GetAsset(ctx context.Context, id string) (*Asset, error)
	UpdateAssetAmount(ctx context.Context, id string, amount float64) (*Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	// SetAssetPrice stores the quote on the asset row and upserts the
	// snapshot for the quote's calendar day.
	SetAssetPrice(ctx context.Context, id string, price float64, date time.Time) (*Asset, error)
}
