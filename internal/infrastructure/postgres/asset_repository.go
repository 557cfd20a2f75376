package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneta/internal/domain/asset"
)

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `
	id, account_id, api_source, asset_id, symbol, name, amount,
	last_price, last_price_date, created_at, updated_at
`

func scanAsset(row rowScanner) (*asset.Asset, error) {
	var a asset.Asset
	err := row.Scan(
		&a.ID, &a.AccountID, &a.APISource, &a.AssetID, &a.Symbol, &a.Name,
		&a.Amount, &a.LastPrice, &a.LastPriceDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateInvestmentAccount creates the base account row with type investment
// and its extension row in one database transaction.
func (r *AssetRepository) CreateInvestmentAccount(ctx context.Context, name, currency string) (*asset.InvestmentAccount, error) {
	accountID := uuid.NewString()

	var ia asset.InvestmentAccount
	err := r.db.withTx(ctx, "db.CreateInvestmentAccount", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, name, type, currency)
			VALUES ($1, $2, 'investment', $3)
		`, accountID, name, currency)
		if err != nil {
			return fmt.Errorf("failed to create base account: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO investment_accounts (id, account_id, name)
			VALUES ($1, $2, $3)
			RETURNING id, account_id, name, created_at, updated_at
		`, uuid.NewString(), accountID, name).Scan(
			&ia.ID, &ia.AccountID, &ia.Name, &ia.CreatedAt, &ia.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create investment account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ia.Currency = currency
	ia.Assets = []*asset.Asset{}
	return &ia, nil
}

// ListInvestmentAccounts returns every investment account with its assets
// nested. Assets are fetched in one query and grouped in memory.
func (r *AssetRepository) ListInvestmentAccounts(ctx context.Context) ([]*asset.InvestmentAccount, error) {
	query := `
		SELECT ia.id, ia.account_id, ia.name, a.currency, ia.created_at, ia.updated_at
		FROM investment_accounts ia
		JOIN accounts a ON a.id = ia.account_id
		ORDER BY ia.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*asset.InvestmentAccount
	byID := make(map[string]*asset.InvestmentAccount)
	for rows.Next() {
		var ia asset.InvestmentAccount
		err := rows.Scan(&ia.ID, &ia.AccountID, &ia.Name, &ia.Currency, &ia.CreatedAt, &ia.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment account: %w", err)
		}
		ia.Assets = []*asset.Asset{}
		accounts = append(accounts, &ia)
		byID[ia.ID] = &ia
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment accounts: %w", err)
	}

	assetRows, err := r.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM investment_assets
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer assetRows.Close()

	for assetRows.Next() {
		a, err := scanAsset(assetRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if ia, ok := byID[a.AccountID]; ok {
			ia.Assets = append(ia.Assets, a)
		}
	}
	if err := assetRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return accounts, nil
}

func (r *AssetRepository) AccountCurrency(ctx context.Context, investmentAccountID string) (string, error) {
	query := `
		SELECT a.currency
		FROM investment_accounts ia
		JOIN accounts a ON a.id = ia.account_id
		WHERE ia.id = $1
	`

	var currency string
	err := r.db.QueryRowContext(ctx, query, investmentAccountID).Scan(&currency)
	if err == sql.ErrNoRows {
		return "", asset.ErrInvestmentAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account currency: %w", err)
	}
	return currency, nil
}

func (r *AssetRepository) AddAsset(ctx context.Context, investmentAccountID string, params asset.AddAssetParams) (*asset.Asset, error) {
	query := `
		INSERT INTO investment_assets (id, account_id, api_source, asset_id, symbol, name, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + assetColumns

	a, err := scanAsset(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), investmentAccountID, params.APISource,
		params.AssetID, params.Symbol, params.Name, params.Amount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to add asset: %w", err)
	}

	return a, nil
}

func (r *AssetRepository) GetAsset(ctx context.Context, id string) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM investment_assets WHERE id = $1`

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, asset.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return a, nil
}

func (r *AssetRepository) UpdateAssetAmount(ctx context.Context, id string, amount float64) (*asset.Asset, error) {
	query := `
		UPDATE investment_assets
		SET amount = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + assetColumns

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, amount, id))
	if err == sql.ErrNoRows {
		return nil, asset.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update asset amount: %w", err)
	}

	return a, nil
}

func (r *AssetRepository) DeleteAsset(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investment_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return asset.ErrAssetNotFound
	}
	return nil
}

// SetAssetPrice stores the quote on the asset row and upserts the worth
// snapshot for that calendar day, atomically. The snapshot captures the
// holding amount at quote time so history survives later amount edits.
func (r *AssetRepository) SetAssetPrice(ctx context.Context, id string, price float64, date time.Time) (*asset.Asset, error) {
	var a *asset.Asset
	err := r.db.withTx(ctx, "db.SetAssetPrice", func(tx *sql.Tx) error {
		var err error
		a, err = scanAsset(tx.QueryRowContext(ctx, `
			UPDATE investment_assets
			SET last_price = $1, last_price_date = $2, updated_at = CURRENT_TIMESTAMP
			WHERE id = $3
			RETURNING `+assetColumns, price, date, id))
		if err == sql.ErrNoRows {
			return asset.ErrAssetNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to set asset price: %w", err)
		}

		var currency string
		err = tx.QueryRowContext(ctx, `
			SELECT acc.currency
			FROM investment_accounts ia
			JOIN accounts acc ON acc.id = ia.account_id
			WHERE ia.id = $1
		`, a.AccountID).Scan(&currency)
		if err != nil {
			return fmt.Errorf("failed to get account currency: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO asset_worth_history (asset_id, date, amount, price, currency)
			VALUES ($1, $2::date, $3, $4, $5)
			ON CONFLICT (asset_id, date)
			DO UPDATE SET amount = EXCLUDED.amount, price = EXCLUDED.price, currency = EXCLUDED.currency
		`, id, date, a.Amount, price, currency)
		if err != nil {
			return fmt.Errorf("failed to upsert worth snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}
