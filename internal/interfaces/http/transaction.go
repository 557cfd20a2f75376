package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"moneta/internal/domain/csvimport"
	"moneta/internal/domain/transaction"
)

type TransactionHandler struct {
	transactions *transaction.Service
	importer     *csvimport.Importer
}

func NewTransactionHandler(transactions *transaction.Service, importer *csvimport.Importer) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, importer: importer}
}

// Request/Response DTOs

type CreateTransactionRequest struct {
	AccountID     string   `json:"account_id"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	FromAccountID *string  `json:"from_account_id,omitempty"`
	ToAccountID   *string  `json:"to_account_id,omitempty"`
}

type UpdateTransactionRequest struct {
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type BulkUpdateRequest struct {
	IDs    []string                 `json:"ids"`
	Fields UpdateTransactionRequest `json:"fields"`
}

type BulkUpdateResponse struct {
	Updated []TransactionResponse `json:"updated"`
	Failed  []string              `json:"failed"`
}

type BulkImportRequest struct {
	AccountID    string             `json:"account_id"`
	Transactions []csvimport.RawRow `json:"transactions"`
}

// TransactionResponse adds transfer_direction, synthesized from the amount
// sign for transfer legs so clients never infer it themselves.
type TransactionResponse struct {
	*transaction.Transaction
	TransferDirection string `json:"transfer_direction,omitempty"`
}

func toTransactionResponse(t *transaction.Transaction) TransactionResponse {
	resp := TransactionResponse{Transaction: t}
	if t.Type == transaction.TypeTransfer {
		if t.Amount < 0 {
			resp.TransferDirection = "outgoing"
		} else {
			resp.TransferDirection = "incoming"
		}
	}
	return resp
}

func toTransactionResponses(transactions []*transaction.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t))
	}
	return response
}

// parseDateField accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDateField(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// HandleTransactions routes requests to the appropriate handler based on method
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r)
	case http.MethodPost:
		h.handleCreateTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID routes requests for a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateTransaction(w, r)
	case http.MethodDelete:
		h.handleDeleteTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListTransactions returns ledger rows matching the query filters.
// tagId expands to the tag's whole subtree; "all" or absent means no tag
// filter.
func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := transaction.Filter{
		TagID:  r.URL.Query().Get("tagId"),
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	transactions, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionResponses(transactions))
}

// handleCreateTransaction creates a single transaction, or a linked pair for
// transfers.
func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create transaction request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := parseDateField(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		AccountID:     req.AccountID,
		Date:          date,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		Status:        req.Status,
		Tags:          req.Tags,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
	}
	if params.Status == "" {
		params.Status = transaction.StatusPending
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.transactions.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTransactionResponse(t))
}

func (req *UpdateTransactionRequest) toParams() (transaction.UpdateParams, error) {
	params := transaction.UpdateParams{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      req.Status,
		Tags:        req.Tags,
	}
	if req.Date != nil {
		date, err := parseDateField(*req.Date)
		if err != nil {
			return transaction.UpdateParams{}, err
		}
		params.Date = &date
	}
	return params, nil
}

// handleUpdateTransaction applies a partial update; transfer legs mirror
// onto their linked partner.
func (h *TransactionHandler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("id")
	if transactionID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update transaction request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.transactions.Update(r.Context(), transactionID, params)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating transaction %s: %v", transactionID, err)
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionResponse(t))
}

// handleDeleteTransaction removes a transaction and, for transfer legs, its
// linked partner.
func (h *TransactionHandler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("id")
	if transactionID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	if err := h.transactions.Delete(r.Context(), transactionID); err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting transaction %s: %v", transactionID, err)
		http.Error(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkDelete removes all listed transactions in one statement.
func (h *TransactionHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding bulk delete request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	deleted, err := h.transactions.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		log.Printf("Error bulk deleting transactions: %v", err)
		http.Error(w, "Failed to delete transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BulkDeleteResponse{Deleted: deleted})
}

// HandleBulkUpdate applies the same partial update to every listed id.
func (h *TransactionHandler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding bulk update request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := req.Fields.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, failed, err := h.transactions.BulkUpdate(r.Context(), req.IDs, params)
	if err != nil {
		log.Printf("Error bulk updating transactions: %v", err)
		http.Error(w, "Failed to update transactions", http.StatusInternalServerError)
		return
	}

	response := BulkUpdateResponse{
		Updated: toTransactionResponses(updated),
		Failed:  failed,
	}
	if response.Failed == nil {
		response.Failed = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleBulkImport normalizes raw CSV rows and inserts them as one atomic
// batch, marking likely duplicates.
func (h *TransactionHandler) HandleBulkImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding bulk import request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.AccountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.importer.Import(r.Context(), req.AccountID, req.Transactions)
	if err != nil {
		log.Printf("Error importing transactions for account %s: %v", req.AccountID, err)
		http.Error(w, "Failed to import transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
