package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository reads the aggregation inputs. Balances are summed in SQL;
// the time-bucketed series are walked in the service from raw entries and
// snapshots.
type Repository interface {
	// AccountBalances returns, per non-investment account id, the sum of
	// transaction amounts over every status.
	AccountBalances(ctx context.Context) (map[string]decimal.Decimal, error)
	// InvestmentAccountBalances returns, per investment account's base
	// account id, the sum over its assets of amount times the latest
	// known price. Assets with no price history contribute zero.
	InvestmentAccountBalances(ctx context.Context) (map[string]decimal.Decimal, error)

	// SignedClearedEntries returns every cleared ledger row with the
	// net-worth sign convention applied, ordered by date ascending.
	SignedClearedEntries(ctx context.Context) ([]Entry, error)
	// AssetSnapshots returns all worth-history rows ordered by asset and
	// date ascending. investmentAccountID narrows to one account's
	// assets; empty returns every asset.
	AssetSnapshots(ctx context.Context, investmentAccountID string) ([]Snapshot, error)
}
