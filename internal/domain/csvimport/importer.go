package csvimport

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/domain/transaction"
)

// RawRow is one unparsed CSV row as received from the client.
type RawRow struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// StagedRow is a row that survived normalization and is ready for the ledger.
type StagedRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        string
}

// BatchResult is what the ledger reports back after an atomic batch insert.
type BatchResult struct {
	Imported     int
	Duplicated   int
	Transactions []*transaction.Transaction
}

// Ledger persists a staged batch inside one database transaction, flagging
// likely duplicates with status "duplicated" as it goes. Rows inserted
// earlier in the batch participate in the duplicate checks of later rows.
type Ledger interface {
	ImportBatch(ctx context.Context, accountID string, rows []StagedRow) (*BatchResult, error)
}

// ImportResult is the caller-facing outcome of a bulk import.
type ImportResult struct {
	Imported     int                        `json:"importedCount"`
	Duplicated   int                        `json:"duplicatedCount"`
	Skipped      int                        `json:"skippedCount"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

// Importer normalizes raw CSV rows and hands the surviving ones to the
// ledger as one atomic batch.
type Importer struct {
	ledger Ledger
}

func NewImporter(ledger Ledger) *Importer {
	return &Importer{ledger: ledger}
}

// Import runs the import fold: each row is parsed and classified
// independently; a parse failure skips that row and the batch continues. The
// staged rows are then inserted in one database transaction, so a storage
// failure rolls the whole batch back.
func (i *Importer) Import(ctx context.Context, accountID string, rows []RawRow) (*ImportResult, error) {
	staged := make([]StagedRow, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		amount, err := ParseAmount(row.Amount)
		if err != nil {
			log.Printf("Skipping import row %q: %v", row.Description, err)
			skipped++
			continue
		}

		date, err := ParseDate(row.Date)
		if err != nil {
			log.Printf("Skipping import row %q: %v", row.Description, err)
			skipped++
			continue
		}

		staged = append(staged, StagedRow{
			Date:        date,
			Description: row.Description,
			Amount:      amount,
			Type:        ClassifyType(amount),
		})
	}

	result := &ImportResult{Skipped: skipped, Transactions: []*transaction.Transaction{}}
	if len(staged) == 0 {
		return result, nil
	}

	batch, err := i.ledger.ImportBatch(ctx, accountID, staged)
	if err != nil {
		return nil, err
	}

	result.Imported = batch.Imported
	result.Duplicated = batch.Duplicated
	result.Transactions = batch.Transactions
	return result, nil
}
