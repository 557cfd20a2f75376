package csvimport

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"Plain", "100.50", "100.5", false},
		{"Comma Decimal", "123,45", "123.45", false},
		{"Quoted", `"123,45"`, "123.45", false},
		{"Negative Comma", "-50,99", "-50.99", false},
		{"Integer", "42", "42", false},
		{"Garbage", "abc", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, want)
			}
		})
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"100", "income"},
		{"0", "income"},
		{"-0.01", "expense"},
		{"-250", "expense"},
	}

	for _, tt := range tests {
		amount, _ := decimal.NewFromString(tt.amount)
		if got := ClassifyType(amount); got != tt.want {
			t.Errorf("ClassifyType(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"DD-MM-YYYY", "15-03-2024", midnight, false},
		{"DD/MM/YYYY", "15/03/2024", midnight, false},
		{"ISO Date", "2024-03-15", midnight, false},
		{"ISO Timestamp", "2024-03-15T10:00:00Z", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), false},
		{"Unpadded", "5-3-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"Garbage", "not-a-date", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSimilarDescriptions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"Substring", "Coffee Shop", "coffee shop downtown", true},
		{"Reverse Substring", "coffee shop downtown", "Coffee Shop", true},
		{"Case And Whitespace", "  COFFEE SHOP  ", "coffee shop", true},
		{"Typo Within Distance", "coffee shop", "coffee shap", true},
		{"Unrelated", "coffee shop", "hardware store", false},
		{"Too Short", "abc", "abc", false},
		{"One Side Too Short", "ab", "grocery store", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimilarDescriptions(tt.a, tt.b); got != tt.want {
				t.Errorf("SimilarDescriptions(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestWithinWindow(t *testing.T) {
	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		other time.Time
		want  bool
	}{
		{"Same Day", base, true},
		{"Two Days Later", base.AddDate(0, 0, 2), true},
		{"Six Days Earlier", base.AddDate(0, 0, -6), true},
		{"Ten Days Later", base.AddDate(0, 0, 10), false},
		{"Exactly Seven Days", base.Add(7 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinWindow(base, tt.other); got != tt.want {
				t.Errorf("WithinWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}
