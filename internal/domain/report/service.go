package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service computes derived balances and the time-bucketed worth series.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Balances merges ledger-derived balances for regular accounts with
// holdings-derived balances for investment accounts, keyed by account id.
func (s *Service) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	balances, err := s.repo.AccountBalances(ctx)
	if err != nil {
		return nil, err
	}
	investment, err := s.repo.InvestmentAccountBalances(ctx)
	if err != nil {
		return nil, err
	}
	for id, v := range investment {
		balances[id] = v
	}
	return balances, nil
}

// NetWorthTrend returns one point per trailing calendar month, valued at
// month end. Each point is the running cleared-ledger total plus the worth
// of every investment asset priced at its latest snapshot on or before that
// month end.
func (s *Service) NetWorthTrend(ctx context.Context) ([]TrendPoint, error) {
	entries, err := s.repo.SignedClearedEntries(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.repo.AssetSnapshots(ctx, "")
	if err != nil {
		return nil, err
	}
	byAsset := groupSnapshots(snapshots)

	now := s.now().UTC()
	points := make([]TrendPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		cutoff := monthStart.AddDate(0, 1, 0)

		value := sumEntriesBefore(entries, cutoff)
		value = value.Add(assetsWorthBefore(byAsset, cutoff))

		points = append(points, TrendPoint{
			Label: monthStart.Format("Jan '06"),
			Value: value,
		})
	}
	return points, nil
}

// WorthHistory returns the worth of one investment account over the last
// 30 days or 12 months. Each point prices every asset at its latest
// snapshot on or before that point's date; assets with no snapshot yet
// contribute nothing.
func (s *Service) WorthHistory(ctx context.Context, investmentAccountID, timeframe string) ([]HistoryPoint, error) {
	snapshots, err := s.repo.AssetSnapshots(ctx, investmentAccountID)
	if err != nil {
		return nil, err
	}
	byAsset := groupSnapshots(snapshots)

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	switch timeframe {
	case TimeframeDays:
		for i := 29; i >= 0; i-- {
			dates = append(dates, today.AddDate(0, 0, -i))
		}
	case TimeframeMonths:
		for i := 11; i >= 0; i-- {
			monthStart := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
			monthEnd := monthStart.AddDate(0, 1, -1)
			if monthEnd.After(today) {
				monthEnd = today
			}
			dates = append(dates, monthEnd)
		}
	default:
		return nil, ErrUnknownTimeframe
	}

	points := make([]HistoryPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, HistoryPoint{
			Date:  d.Format("2006-01-02"),
			Value: assetsWorthBefore(byAsset, d.AddDate(0, 0, 1)),
		})
	}
	return points, nil
}

func groupSnapshots(snapshots []Snapshot) map[string][]Snapshot {
	byAsset := make(map[string][]Snapshot)
	for _, snap := range snapshots {
		byAsset[snap.AssetID] = append(byAsset[snap.AssetID], snap)
	}
	return byAsset
}

func sumEntriesBefore(entries []Entry, cutoff time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Date.Before(cutoff) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// assetsWorthBefore values each asset at its latest snapshot strictly
// before cutoff. Snapshots per asset are assumed date-ascending.
func assetsWorthBefore(byAsset map[string][]Snapshot, cutoff time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, snaps := range byAsset {
		var latest *Snapshot
		for i := range snaps {
			if snaps[i].Date.Before(cutoff) {
				latest = &snaps[i]
			}
		}
		if latest != nil {
			total = total.Add(latest.Amount.Mul(latest.Price))
		}
	}
	return total
}
