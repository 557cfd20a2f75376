package asset

import (
	"errors"
	"time"
)

var (
	ErrAssetNotFound             = errors.New("asset not found")
	ErrInvestmentAccountNotFound = errors.New("investment account not found")
	ErrUnknownSource             = errors.New("unknown price source")
)

// InvestmentAccount is the 1:1 extension of an account with type=investment.
type InvestmentAccount struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Assets    []*Asset  `json:"assets"`
}

// Asset is one holding inside an investment account. LastPrice is a same-day
// cache of the most recent quote; the durable series lives in
// asset_worth_history.
type Asset struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	APISource     string     `json:"api_source"`
	AssetID       string     `json:"asset_id"`
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Amount        float64    `json:"amount"`
	LastPrice     *float64   `json:"last_price,omitempty"`
	LastPriceDate *time.Time `json:"last_price_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Quote is a priced point in time for an asset.
type Quote struct {
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
	Currency string    `json:"currency"`
}

type AddAssetParams struct {
	APISource string
	AssetID   string
	Symbol    string
	Name      string
	Amount    float64
}

func (p *AddAssetParams) Validate() error {
	if p.APISource == "" {
		return errors.New("api_source is required")
	}
	if p.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if p.Symbol == "" {
		return errors.New("symbol is required")
	}
	if p.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}
