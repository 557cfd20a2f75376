package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moneta/internal/domain/csvimport"
	"moneta/internal/domain/transaction"
)

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	ListFunc               func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	GetByIDFunc            func(ctx context.Context, id string) (*transaction.Transaction, error)
	CreateFunc             func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	CreateTransferPairFunc func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	UpdateFunc             func(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error)
	DeleteFunc             func(ctx context.Context, id string) error
	DeleteManyFunc         func(ctx context.Context, ids []string) (int64, error)
}

func (m *MockTransactionRepo) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) CreateTransferPair(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateTransferPairFunc != nil {
		return m.CreateTransferPairFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTransactionRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if m.DeleteManyFunc != nil {
		return m.DeleteManyFunc(ctx, ids)
	}
	return 0, nil
}

// MockExpander implements transaction.TagExpander for testing
type MockExpander struct {
	DescendantIDsFunc func(ctx context.Context, id string) ([]string, error)
}

func (m *MockExpander) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	if m.DescendantIDsFunc != nil {
		return m.DescendantIDsFunc(ctx, id)
	}
	return []string{id}, nil
}

// MockLedger implements csvimport.Ledger for testing
type MockLedger struct {
	ImportBatchFunc func(ctx context.Context, accountID string, rows []csvimport.StagedRow) (*csvimport.BatchResult, error)
}

func (m *MockLedger) ImportBatch(ctx context.Context, accountID string, rows []csvimport.StagedRow) (*csvimport.BatchResult, error) {
	if m.ImportBatchFunc != nil {
		return m.ImportBatchFunc(ctx, accountID, rows)
	}
	return &csvimport.BatchResult{Transactions: []*transaction.Transaction{}}, nil
}

func newTransactionHandler(repo *MockTransactionRepo, ledger *MockLedger) *TransactionHandler {
	svc := transaction.NewService(repo, &MockExpander{})
	return NewTransactionHandler(svc, csvimport.NewImporter(ledger))
}

func TestHandleTransactions_ListSynthesizesDirection(t *testing.T) {
	out := "acc-1"
	in := "acc-2"
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{ID: "t-1", Type: transaction.TypeTransfer, Amount: -250, FromAccountID: &out, ToAccountID: &in},
				{ID: "t-2", Type: transaction.TypeTransfer, Amount: 250, FromAccountID: &out, ToAccountID: &in},
				{ID: "t-3", Type: transaction.TypeIncome, Amount: 100},
			}, nil
		},
	}
	handler := newTransactionHandler(repo, &MockLedger{})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	handler.HandleTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []TransactionResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	if got[0].TransferDirection != "outgoing" {
		t.Errorf("t-1 direction = %q, want outgoing", got[0].TransferDirection)
	}
	if got[1].TransferDirection != "incoming" {
		t.Errorf("t-2 direction = %q, want incoming", got[1].TransferDirection)
	}
	if got[2].TransferDirection != "" {
		t.Errorf("t-3 direction = %q, want empty", got[2].TransferDirection)
	}
}

func TestHandleTransactions_ListExpandsTagFilter(t *testing.T) {
	var gotTagIDs []string
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			gotTagIDs = filter.TagIDs
			return nil, nil
		},
	}
	svc := transaction.NewService(repo, &MockExpander{
		DescendantIDsFunc: func(ctx context.Context, id string) ([]string, error) {
			return []string{id, "child-a", "child-b"}, nil
		},
	})
	handler := NewTransactionHandler(svc, csvimport.NewImporter(&MockLedger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?tagId=food", nil)
	rec := httptest.NewRecorder()
	handler.HandleTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(gotTagIDs) != 3 {
		t.Errorf("filter expanded to %v, want the 3-id subtree", gotTagIDs)
	}
}

func TestHandleTransactions_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockRepo       func() *MockTransactionRepo
		expectedStatus int
	}{
		{
			name: "Expense",
			body: `{"account_id":"acc-1","date":"2024-03-15","description":"groceries","amount":-42.50,"type":"expense"}`,
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					CreateFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
						return &transaction.Transaction{ID: "t-1", Type: params.Type, Amount: params.Amount}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "TransferBothLegs",
			body: `{"date":"2024-03-15","amount":100,"type":"transfer","from_account_id":"acc-1","to_account_id":"acc-2"}`,
			mockRepo: func() *MockTransactionRepo {
				return &MockTransactionRepo{
					CreateTransferPairFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
						return &transaction.Transaction{ID: "t-out", Type: transaction.TypeTransfer, Amount: -params.Amount}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "TransferMissingLeg",
			body:           `{"date":"2024-03-15","amount":100,"type":"transfer","from_account_id":"acc-1"}`,
			mockRepo:       func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "BadDate",
			body:           `{"account_id":"acc-1","date":"soon","amount":1,"type":"income"}`,
			mockRepo:       func() *MockTransactionRepo { return &MockTransactionRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransactionHandler(tt.mockRepo(), &MockLedger{})

			req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.HandleTransactions(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleTransactionByID_UpdateNotFound(t *testing.T) {
	repo := &MockTransactionRepo{
		UpdateFunc: func(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
			return nil, nil
		},
	}
	handler := newTransactionHandler(repo, &MockLedger{})

	req := httptest.NewRequest(http.MethodPut, "/api/transactions/missing", bytes.NewBufferString(`{"description":"x"}`))
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.HandleTransactionByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleTransactionByID_UpdateNoFields(t *testing.T) {
	handler := newTransactionHandler(&MockTransactionRepo{}, &MockLedger{})

	req := httptest.NewRequest(http.MethodPut, "/api/transactions/t-1", bytes.NewBufferString(`{}`))
	req.SetPathValue("id", "t-1")
	rec := httptest.NewRecorder()
	handler.HandleTransactionByID(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleBulkDelete(t *testing.T) {
	var gotIDs []string
	repo := &MockTransactionRepo{
		DeleteManyFunc: func(ctx context.Context, ids []string) (int64, error) {
			gotIDs = ids
			return int64(len(ids)), nil
		},
	}
	handler := newTransactionHandler(repo, &MockLedger{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/bulk-delete", bytes.NewBufferString(`{"ids":["a","b","c"]}`))
	rec := httptest.NewRecorder()
	handler.HandleBulkDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp BulkDeleteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Deleted != 3 {
		t.Errorf("deleted = %d, want 3", resp.Deleted)
	}
	if len(gotIDs) != 3 {
		t.Errorf("repository received %v, want 3 ids", gotIDs)
	}
}

func TestHandleBulkImport(t *testing.T) {
	ledger := &MockLedger{
		ImportBatchFunc: func(ctx context.Context, accountID string, rows []csvimport.StagedRow) (*csvimport.BatchResult, error) {
			if accountID != "acc-1" {
				t.Errorf("accountID = %q, want acc-1", accountID)
			}
			return &csvimport.BatchResult{
				Imported:     len(rows),
				Transactions: []*transaction.Transaction{},
			}, nil
		},
	}
	handler := newTransactionHandler(&MockTransactionRepo{}, ledger)

	body := `{
		"account_id": "acc-1",
		"transactions": [
			{"date": "15-03-2024", "amount": "-42,50", "description": "POS PURCHASE"},
			{"date": "16-03-2024", "amount": "not a number", "description": "garbage"},
			{"date": "2024-03-17", "amount": "1200.00", "description": "SALARY"}
		]
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/bulk-import", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.HandleBulkImport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp csvimport.ImportResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Imported != 2 {
		t.Errorf("importedCount = %d, want 2", resp.Imported)
	}
	if resp.Skipped != 1 {
		t.Errorf("skippedCount = %d, want 1", resp.Skipped)
	}
}

func TestHandleBulkImport_MissingAccount(t *testing.T) {
	handler := newTransactionHandler(&MockTransactionRepo{}, &MockLedger{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/bulk-import", bytes.NewBufferString(`{"transactions":[]}`))
	rec := httptest.NewRecorder()
	handler.HandleBulkImport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
