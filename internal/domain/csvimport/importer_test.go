package csvimport

import (
	"context"
	"errors"
	"testing"

	"moneta/internal/domain/transaction"
)

// mockLedger implements Ledger for testing
type mockLedger struct {
	ImportBatchFunc func(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error)
}

func (m *mockLedger) ImportBatch(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error) {
	if m.ImportBatchFunc != nil {
		return m.ImportBatchFunc(ctx, accountID, rows)
	}
	return &BatchResult{}, nil
}

func TestImport_SkipsUnparseableRows(t *testing.T) {
	var staged []StagedRow
	ledger := &mockLedger{
		ImportBatchFunc: func(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error) {
			staged = rows
			txns := make([]*transaction.Transaction, len(rows))
			for i := range rows {
				txns[i] = &transaction.Transaction{ID: "t", Status: transaction.StatusPending}
			}
			return &BatchResult{Imported: len(rows), Transactions: txns}, nil
		},
	}
	importer := NewImporter(ledger)

	rows := []RawRow{
		{Date: "15-03-2024", Amount: "-42,50", Description: "Groceries"},
		{Date: "15-03-2024", Amount: "abc", Description: "Bad amount"},
		{Date: "not a date", Amount: "10", Description: "Bad date"},
		{Date: "2024-03-16", Amount: "1500", Description: "Salary"},
	}

	result, err := importer.Import(context.Background(), "acc-1", rows)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(staged) != 2 {
		t.Fatalf("staged rows = %d, want 2", len(staged))
	}
	if staged[0].Type != "expense" || staged[1].Type != "income" {
		t.Errorf("classified types = %q, %q; want expense, income", staged[0].Type, staged[1].Type)
	}
}

func TestImport_AllRowsUnparseable(t *testing.T) {
	ledger := &mockLedger{
		ImportBatchFunc: func(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error) {
			t.Fatal("ImportBatch should not be called with nothing staged")
			return nil, nil
		},
	}
	importer := NewImporter(ledger)

	result, err := importer.Import(context.Background(), "acc-1", []RawRow{
		{Date: "garbage", Amount: "xx", Description: "row"},
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Skipped != 1 || result.Imported != 0 {
		t.Errorf("result = %+v, want 1 skipped and nothing imported", result)
	}
}

func TestImport_BatchFailureSurfaces(t *testing.T) {
	ledger := &mockLedger{
		ImportBatchFunc: func(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error) {
			return nil, errors.New("db down")
		},
	}
	importer := NewImporter(ledger)

	_, err := importer.Import(context.Background(), "acc-1", []RawRow{
		{Date: "2024-03-15", Amount: "10", Description: "ok"},
	})
	if err == nil {
		t.Fatal("Import() expected error when the batch insert fails")
	}
}
