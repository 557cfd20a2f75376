package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Timeframes accepted by worth history.
const (
	TimeframeDays   = "30d"
	TimeframeMonths = "12m"
)

// Entry is a cleared ledger row with the net-worth sign convention already
// applied: +amount for income, -|amount| for expense and outgoing transfer
// legs, +|amount| for incoming transfer legs.
type Entry struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Snapshot is one asset_worth_history row.
type Snapshot struct {
	AssetID string
	Date    time.Time
	Amount  decimal.Decimal
	Price   decimal.Decimal
}

// TrendPoint is one month in the net worth series.
type TrendPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// HistoryPoint is one day or month in an investment account's worth series.
type HistoryPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}
