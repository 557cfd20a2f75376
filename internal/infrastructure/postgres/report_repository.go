package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"moneta/internal/domain/report"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AccountBalances sums transaction amounts per non-investment account over
// every status. Accounts without transactions show up with a zero balance.
func (r *ReportRepository) AccountBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT a.id, COALESCE(SUM(t.amount), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.type <> 'investment'
		GROUP BY a.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute account balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[id] = balance
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}

	return balances, nil
}

// InvestmentAccountBalances values each investment account as the sum over
// its assets of amount times the latest snapshot price. Assets with no
// history yet contribute zero.
func (r *ReportRepository) InvestmentAccountBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT ia.account_id, COALESCE(SUM(latest.amount * latest.price), 0)
		FROM investment_accounts ia
		LEFT JOIN investment_assets ast ON ast.account_id = ia.id
		LEFT JOIN LATERAL (
			SELECT h.amount, h.price
			FROM asset_worth_history h
			WHERE h.asset_id = ast.id
			ORDER BY h.date DESC
			LIMIT 1
		) latest ON true
		GROUP BY ia.account_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute investment balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan investment balance: %w", err)
		}
		balances[id] = balance
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment balances: %w", err)
	}

	return balances, nil
}

// SignedClearedEntries returns the cleared ledger with the net-worth sign
// convention applied in SQL. Transfer legs are signed by the owning
// account's role so a pair nets to zero across the whole ledger.
func (r *ReportRepository) SignedClearedEntries(ctx context.Context) ([]report.Entry, error) {
	query := `
		SELECT date,
			CASE
				WHEN type = 'income' THEN amount
				WHEN type = 'expense' THEN -ABS(amount)
				WHEN type = 'transfer' AND account_id = from_account_id THEN -ABS(amount)
				WHEN type = 'transfer' AND account_id = to_account_id THEN ABS(amount)
				ELSE 0
			END
		FROM transactions
		WHERE status = 'cleared'
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read cleared entries: %w", err)
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		var e report.Entry
		if err := rows.Scan(&e.Date, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// AssetSnapshots returns worth-history rows, date ascending per asset. An
// empty investmentAccountID returns every asset's history.
func (r *ReportRepository) AssetSnapshots(ctx context.Context, investmentAccountID string) ([]report.Snapshot, error) {
	query := `
		SELECT h.asset_id, h.date, h.amount, h.price
		FROM asset_worth_history h
	`
	var args []any
	if investmentAccountID != "" {
		query += `
		JOIN investment_assets ast ON ast.id = h.asset_id
		WHERE ast.account_id = $1
		`
		args = append(args, investmentAccountID)
	}
	query += ` ORDER BY h.asset_id, h.date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read worth snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []report.Snapshot
	for rows.Next() {
		var s report.Snapshot
		if err := rows.Scan(&s.AssetID, &s.Date, &s.Amount, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
