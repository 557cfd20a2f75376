package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"moneta/internal/domain/csvimport"
	"moneta/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, account_id, date, description, amount, type, status, tags,
	from_account_id, to_account_id, linked_transaction_id, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Date, &t.Description, &t.Amount, &t.Type,
		&t.Status, pq.Array(&t.Tags), &t.FromAccountID, &t.ToAccountID,
		&t.LinkedTransactionID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var conditions []string
	var args []any
	if len(filter.TagIDs) > 0 {
		args = append(args, pq.Array(filter.TagIDs))
		conditions = append(conditions, fmt.Sprintf("tags && $%d::uuid[]", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, account_id, date, description, amount, type, status, tags, from_account_id, to_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.AccountID, params.Date, params.Description,
		params.Amount, params.Type, params.Status, pq.Array(params.Tags),
		params.FromAccountID, params.ToAccountID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return t, nil
}

// CreateTransferPair inserts both legs of a transfer in one database
// transaction: the outgoing leg on the source account with a negative
// amount, the incoming leg on the destination account with a positive one,
// each pointing at the other through linked_transaction_id. The amount in
// params is the transfer magnitude.
func (r *TransactionRepository) CreateTransferPair(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	outgoingID := uuid.NewString()
	incomingID := uuid.NewString()

	query := `
		INSERT INTO transactions (id, account_id, date, description, amount, type, status, tags, from_account_id, to_account_id, linked_transaction_id)
		VALUES ($1, $2, $3, $4, $5, 'transfer', $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	var outgoing *transaction.Transaction
	err := r.db.withTx(ctx, "db.CreateTransferPair", func(tx *sql.Tx) error {
		var err error
		outgoing, err = scanTransaction(tx.QueryRowContext(
			ctx, query,
			outgoingID, *params.FromAccountID, params.Date, params.Description,
			-params.Amount, params.Status, pq.Array(params.Tags),
			params.FromAccountID, params.ToAccountID, incomingID,
		))
		if err != nil {
			return fmt.Errorf("failed to create outgoing leg: %w", err)
		}

		_, err = scanTransaction(tx.QueryRowContext(
			ctx, query,
			incomingID, *params.ToAccountID, params.Date, params.Description,
			params.Amount, params.Status, pq.Array(params.Tags),
			params.FromAccountID, params.ToAccountID, outgoingID,
		))
		if err != nil {
			return fmt.Errorf("failed to create incoming leg: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outgoing, nil
}

const updateTransactionQuery = `
	UPDATE transactions
	SET date = COALESCE($1, date),
	    description = COALESCE($2, description),
	    amount = COALESCE($3, amount),
	    type = COALESCE($4, type),
	    status = COALESCE($5, status),
	    tags = COALESCE($6::uuid[], tags),
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $7
	RETURNING ` + transactionColumns

func updateArgs(id string, params transaction.UpdateParams) []any {
	var tags any
	if params.Tags != nil {
		tags = pq.Array(params.Tags)
	}
	return []any{params.Date, params.Description, params.Amount, params.Type, params.Status, tags, id}
}

// Update applies a partial update. When the row is one leg of a transfer
// pair, the linked row receives the same update with the amount negated, in
// the same database transaction, so the pair's zero sum survives any edit.
func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	var updated *transaction.Transaction
	err := r.db.withTx(ctx, "db.TransactionUpdate", func(tx *sql.Tx) error {
		var err error
		updated, err = scanTransaction(tx.QueryRowContext(ctx, updateTransactionQuery, updateArgs(id, params)...))
		if err == sql.ErrNoRows {
			updated = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		if updated.LinkedTransactionID != nil {
			mirrored := params.Mirrored()
			_, err := scanTransaction(tx.QueryRowContext(ctx, updateTransactionQuery, updateArgs(*updated.LinkedTransactionID, mirrored)...))
			if err != nil && err != sql.ErrNoRows {
				return fmt.Errorf("failed to mirror linked transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the row and, when it is a transfer leg, its linked partner
// in the same database transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.withTx(ctx, "db.TransactionDelete", func(tx *sql.Tx) error {
		var linkedID sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT linked_transaction_id FROM transactions WHERE id = $1`, id).Scan(&linkedID)
		if err == sql.ErrNoRows {
			return transaction.ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		if linkedID.Valid {
			if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, linkedID.String); err != nil {
				return fmt.Errorf("failed to delete linked transaction: %w", err)
			}
		}
		return nil
	})
}

// DeleteMany removes the listed rows in one statement. Linked partners are
// deliberately not cascaded here.
func (r *TransactionRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	query := `DELETE FROM transactions WHERE id = ANY($1::uuid[])`

	result, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return deleted, nil
}

// ImportBatch inserts staged CSV rows in one database transaction. Each row
// is checked against existing rows on the same account with the same amount
// within seven days; a similar description marks the new row "duplicated"
// instead of "pending". Rows inserted earlier in the batch are visible to
// the checks of later rows because everything runs in the same transaction.
func (r *TransactionRepository) ImportBatch(ctx context.Context, accountID string, rows []csvimport.StagedRow) (*csvimport.BatchResult, error) {
	insertQuery := `
		INSERT INTO transactions (id, account_id, date, description, amount, type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	candidateQuery := `
		SELECT description FROM transactions
		WHERE account_id = $1 AND amount = $2 AND date BETWEEN $3 AND $4
	`

	result := &csvimport.BatchResult{Transactions: []*transaction.Transaction{}}
	err := r.db.withTx(ctx, "db.ImportBatch", func(tx *sql.Tx) error {
		for _, row := range rows {
			candidates, err := tx.QueryContext(
				ctx, candidateQuery,
				accountID, row.Amount,
				row.Date.Add(-csvimport.DuplicateWindow), row.Date.Add(csvimport.DuplicateWindow),
			)
			if err != nil {
				return fmt.Errorf("failed to query duplicate candidates: %w", err)
			}

			status := transaction.StatusPending
			for candidates.Next() {
				var desc string
				if err := candidates.Scan(&desc); err != nil {
					candidates.Close()
					return fmt.Errorf("failed to scan candidate: %w", err)
				}
				if csvimport.SimilarDescriptions(row.Description, desc) {
					status = transaction.StatusDuplicated
					break
				}
			}
			candidates.Close()
			if err := candidates.Err(); err != nil {
				return fmt.Errorf("error iterating candidates: %w", err)
			}

			t, err := scanTransaction(tx.QueryRowContext(
				ctx, insertQuery,
				uuid.NewString(), accountID, row.Date, row.Description,
				row.Amount, row.Type, status,
			))
			if err != nil {
				return fmt.Errorf("failed to insert imported transaction: %w", err)
			}

			if status == transaction.StatusDuplicated {
				result.Duplicated++
			} else {
				result.Imported++
			}
			result.Transactions = append(result.Transactions, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
