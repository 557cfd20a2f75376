package csvimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a raw CSV amount cell: literal quote characters are
// stripped and a decimal comma becomes a decimal point (bank exports from
// comma-decimal locales), then the result is parsed exactly.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

// ClassifyType maps an amount sign to a transaction type. Transfers are never
// inferred from an import.
func ClassifyType(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "expense"
	}
	return "income"
}

// ParseDate normalizes the date formats seen in bank CSV exports to a UTC
// timestamp. Rules, in order:
//   - contains 'T' or 'Z': already an ISO timestamp, passed through
//   - YYYY-MM-DD: midnight UTC
//   - contains '-' otherwise: DD-MM-YYYY
//   - contains '/': DD/MM/YYYY
//   - anything else: DD-MM-YYYY
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if strings.ContainsAny(raw, "TZ") {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
		}
		return t, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}

	// Day and month may come unpadded ("5-3-2024"); these layouts accept both.
	layout := "2-1-2006"
	if strings.Contains(raw, "/") {
		layout = "2/1/2006"
	}

	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t.UTC(), nil
}
