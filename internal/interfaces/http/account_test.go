package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/domain/account"
	"moneta/internal/domain/report"
)

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	CreateFunc  func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByIDFunc func(ctx context.Context, id string) (*account.Account, error)
	ListFunc    func(ctx context.Context) ([]*account.Account, error)
	DeleteFunc  func(ctx context.Context, id string) error
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAccountRepo) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

// MockReportRepo implements report.Repository for testing
type MockReportRepo struct {
	AccountBalancesFunc           func(ctx context.Context) (map[string]decimal.Decimal, error)
	InvestmentAccountBalancesFunc func(ctx context.Context) (map[string]decimal.Decimal, error)
	SignedClearedEntriesFunc      func(ctx context.Context) ([]report.Entry, error)
	AssetSnapshotsFunc            func(ctx context.Context, investmentAccountID string) ([]report.Snapshot, error)
}

func (m *MockReportRepo) AccountBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.AccountBalancesFunc != nil {
		return m.AccountBalancesFunc(ctx)
	}
	return map[string]decimal.Decimal{}, nil
}

func (m *MockReportRepo) InvestmentAccountBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.InvestmentAccountBalancesFunc != nil {
		return m.InvestmentAccountBalancesFunc(ctx)
	}
	return map[string]decimal.Decimal{}, nil
}

func (m *MockReportRepo) SignedClearedEntries(ctx context.Context) ([]report.Entry, error) {
	if m.SignedClearedEntriesFunc != nil {
		return m.SignedClearedEntriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockReportRepo) AssetSnapshots(ctx context.Context, investmentAccountID string) ([]report.Snapshot, error) {
	if m.AssetSnapshotsFunc != nil {
		return m.AssetSnapshotsFunc(ctx, investmentAccountID)
	}
	return nil, nil
}

func newAccountHandler(repo *MockAccountRepo, reportRepo *MockReportRepo) *AccountHandler {
	return NewAccountHandler(account.NewService(repo), report.NewService(reportRepo))
}

func TestHandleAccounts_ListAttachesBalances(t *testing.T) {
	accountRepo := &MockAccountRepo{
		ListFunc: func(ctx context.Context) ([]*account.Account, error) {
			return []*account.Account{
				{ID: "acc-1", Name: "Checking", Type: "bank"},
				{ID: "acc-2", Name: "Brokerage", Type: "investment"},
			}, nil
		},
	}
	reportRepo := &MockReportRepo{
		AccountBalancesFunc: func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{"acc-1": decimal.NewFromFloat(1234.56)}, nil
		},
		InvestmentAccountBalancesFunc: func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{"acc-2": decimal.NewFromInt(9000)}, nil
		},
	}
	handler := newAccountHandler(accountRepo, reportRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.HandleAccounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"balance":1234.56`) {
		t.Errorf("balance not serialized as a JSON number: %s", body)
	}

	var got []AccountResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d accounts, want 2", len(got))
	}
	if !got[0].Balance.Equal(decimal.NewFromFloat(1234.56)) {
		t.Errorf("acc-1 balance = %s, want 1234.56", got[0].Balance)
	}
	if !got[1].Balance.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("acc-2 balance = %s, want 9000", got[1].Balance)
	}
}

func TestHandleAccounts_ListBalanceError(t *testing.T) {
	reportRepo := &MockReportRepo{
		AccountBalancesFunc: func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return nil, errors.New("database error")
		},
	}
	handler := newAccountHandler(&MockAccountRepo{}, reportRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rec := httptest.NewRecorder()
	handler.HandleAccounts(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleAccounts_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"name":"Savings","type":"savings","currency":"EUR"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "DefaultsCurrency",
			body:           `{"name":"Wallet","type":"bank"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "MissingName",
			body:           `{"type":"bank"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "InvalidType",
			body:           `{"name":"X","type":"offshore"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "InvalidCurrency",
			body:           `{"name":"X","type":"bank","currency":"ZZ9"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "InvalidBody",
			body:           `{invalid`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockAccountRepo{
				CreateFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
					return &account.Account{ID: "acc-new", Name: params.Name, Type: params.Type, Currency: params.Currency}, nil
				},
			}
			handler := newAccountHandler(repo, &MockReportRepo{})

			req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.HandleAccounts(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleAccountByID_Delete(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		expectedStatus int
	}{
		{name: "Success", exists: true, expectedStatus: http.StatusNoContent},
		{name: "NotFound", exists: false, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockAccountRepo{
				ExistsFunc: func(ctx context.Context, id string) (bool, error) {
					return tt.exists, nil
				},
			}
			handler := newAccountHandler(repo, &MockReportRepo{})

			req := httptest.NewRequest(http.MethodDelete, "/api/accounts/acc-1", nil)
			req.SetPathValue("id", "acc-1")
			rec := httptest.NewRecorder()
			handler.HandleAccountByID(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}
