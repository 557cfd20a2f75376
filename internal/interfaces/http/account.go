package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"moneta/internal/domain/account"
	"moneta/internal/domain/report"
)

func init() {
	// Balances and worth series are JSON numbers on the wire, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type AccountHandler struct {
	accounts *account.Service
	reports  *report.Service
}

func NewAccountHandler(accounts *account.Service, reports *report.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts, reports: reports}
}

// Request/Response DTOs

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

// AccountResponse attaches the derived balance to the account row. Balance
// is computed from the ledger (or asset holdings for investment accounts)
// on every read; it is never stored.
type AccountResponse struct {
	*account.Account
	Balance decimal.Decimal `json:"balance"`
}

// HandleAccounts routes requests to the appropriate handler based on method
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListAccounts(w, r)
	case http.MethodPost:
		h.handleCreateAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListAccounts returns all accounts with their computed balances.
func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	balances, err := h.reports.Balances(r.Context())
	if err != nil {
		log.Printf("Error computing balances: %v", err)
		http.Error(w, "Failed to compute balances", http.StatusInternalServerError)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, AccountResponse{Account: a, Balance: balances[a.ID]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleCreateAccount creates a new account
func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create account request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.accounts.CreateAccount(r.Context(), account.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
	})
	if err != nil {
		if errors.Is(err, account.ErrNameRequired) ||
			errors.Is(err, account.ErrInvalidAccountType) ||
			errors.Is(err, account.ErrInvalidCurrency) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating account: %v", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AccountResponse{Account: a})
}

// HandleAccountByID routes requests for a specific account
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting account %s: %v", accountID, err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
