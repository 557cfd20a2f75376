package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"moneta/internal/domain/asset"
	"moneta/internal/domain/report"
)

type InvestmentHandler struct {
	assets  *asset.Service
	reports *report.Service
}

func NewInvestmentHandler(assets *asset.Service, reports *report.Service) *InvestmentHandler {
	return &InvestmentHandler{assets: assets, reports: reports}
}

// Request/Response DTOs

type CreateInvestmentAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type AddAssetRequest struct {
	APISource string  `json:"api_source"`
	AssetID   string  `json:"asset_id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

type UpdateAssetRequest struct {
	Amount float64 `json:"amount"`
}

type SetPriceRequest struct {
	Price float64 `json:"price"`
}

type SearchAssetsRequest struct {
	Source string `json:"source"`
	Query  string `json:"query"`
}

// HandleInvestmentAccounts routes requests to the appropriate handler based on method
func (h *InvestmentHandler) HandleInvestmentAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListInvestmentAccounts(w, r)
	case http.MethodPost:
		h.handleCreateInvestmentAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) handleListInvestmentAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.assets.ListInvestmentAccounts(r.Context())
	if err != nil {
		log.Printf("Error listing investment accounts: %v", err)
		http.Error(w, "Failed to list investment accounts", http.StatusInternalServerError)
		return
	}

	if accounts == nil {
		accounts = []*asset.InvestmentAccount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *InvestmentHandler) handleCreateInvestmentAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create investment account request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ia, err := h.assets.CreateInvestmentAccount(r.Context(), req.Name, req.Currency)
	if err != nil {
		log.Printf("Error creating investment account: %v", err)
		http.Error(w, "Failed to create investment account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ia)
}

// HandleWorthHistory returns the account's worth series over the requested
// timeframe (30d or 12m).
func (h *InvestmentHandler) HandleWorthHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Investment account ID is required", http.StatusBadRequest)
		return
	}

	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = report.TimeframeDays
	}

	points, err := h.reports.WorthHistory(r.Context(), accountID, timeframe)
	if err != nil {
		if errors.Is(err, report.ErrUnknownTimeframe) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error computing worth history for account %s: %v", accountID, err)
		http.Error(w, "Failed to compute worth history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(points)
}

// HandleAddAsset adds an asset to an investment account.
func (h *InvestmentHandler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Investment account ID is required", http.StatusBadRequest)
		return
	}

	var req AddAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding add asset request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := asset.AddAssetParams{
		APISource: req.APISource,
		AssetID:   req.AssetID,
		Symbol:    req.Symbol,
		Name:      req.Name,
		Amount:    req.Amount,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.assets.AddAsset(r.Context(), accountID, params)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrInvestmentAccountNotFound):
			http.Error(w, "Investment account not found", http.StatusNotFound)
		case errors.Is(err, asset.ErrUnknownSource):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error adding asset to account %s: %v", accountID, err)
			http.Error(w, "Failed to add asset", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

// HandleAssetByID routes requests for a specific asset
func (h *InvestmentHandler) HandleAssetByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPatch:
		h.handleUpdateAsset(w, r)
	case http.MethodDelete:
		h.handleDeleteAsset(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("id")
	if assetID == "" {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update asset request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	a, err := h.assets.UpdateAssetAmount(r.Context(), assetID, req.Amount)
	if err != nil {
		if errors.Is(err, asset.ErrAssetNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating asset %s: %v", assetID, err)
		http.Error(w, "Failed to update asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *InvestmentHandler) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("id")
	if assetID == "" {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	if err := h.assets.DeleteAsset(r.Context(), assetID); err != nil {
		if errors.Is(err, asset.ErrAssetNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting asset %s: %v", assetID, err)
		http.Error(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAssetPrice refreshes the asset's quote from its price source (GET)
// or records a manual price (PATCH). Both persist a worth snapshot for the
// day.
func (h *InvestmentHandler) HandleAssetPrice(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("id")
	if assetID == "" {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleRefreshPrice(w, r, assetID)
	case http.MethodPatch:
		h.handleSetPrice(w, r, assetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) handleRefreshPrice(w http.ResponseWriter, r *http.Request, assetID string) {
	a, err := h.assets.RefreshPrice(r.Context(), assetID)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrAssetNotFound):
			http.Error(w, "Asset not found", http.StatusNotFound)
		case errors.Is(err, asset.ErrPriceUnavailable):
			http.Error(w, "Price unavailable", http.StatusNotFound)
		case errors.Is(err, asset.ErrUnknownSource):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error refreshing price for asset %s: %v", assetID, err)
			http.Error(w, "Failed to fetch price", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *InvestmentHandler) handleSetPrice(w http.ResponseWriter, r *http.Request, assetID string) {
	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding set price request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Price < 0 {
		http.Error(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	a, err := h.assets.SetManualPrice(r.Context(), assetID, req.Price)
	if err != nil {
		if errors.Is(err, asset.ErrAssetNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Error setting price for asset %s: %v", assetID, err)
		http.Error(w, "Failed to set price", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

// HandleAssetSearch proxies an asset lookup to the named price source.
func (h *InvestmentHandler) HandleAssetSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchAssetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding asset search request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := h.assets.Search(r.Context(), req.Source, req.Query)
	if err != nil {
		if errors.Is(err, asset.ErrUnknownSource) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error searching assets on %s: %v", req.Source, err)
		http.Error(w, "Failed to search assets", http.StatusBadGateway)
		return
	}

	if results == nil {
		results = []asset.SearchResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
