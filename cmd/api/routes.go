package main

import (
	"net/http"

	"moneta/internal/shared/config"
	"moneta/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handleHealth)

	// Auth
	mux.HandleFunc("/api/auth/signin", deps.AuthHandler.HandleSignIn)

	// Accounts
	mux.HandleFunc("/api/accounts", deps.AccountHandler.HandleAccounts)
	mux.HandleFunc("/api/accounts/{id}", deps.AccountHandler.HandleAccountByID)

	// Tags
	mux.HandleFunc("/api/tags", deps.TagHandler.HandleTags)
	mux.HandleFunc("/api/tags/sync-colors", deps.TagHandler.HandleSyncColors)
	mux.HandleFunc("/api/tags/{id}", deps.TagHandler.HandleTagByID)

	// Transactions
	mux.HandleFunc("/api/transactions", deps.TransactionHandler.HandleTransactions)
	mux.HandleFunc("/api/transactions/bulk-delete", deps.TransactionHandler.HandleBulkDelete)
	mux.HandleFunc("/api/transactions/bulk-update", deps.TransactionHandler.HandleBulkUpdate)
	mux.HandleFunc("/api/transactions/bulk-import", deps.TransactionHandler.HandleBulkImport)
	mux.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)

	// Investments
	mux.HandleFunc("/api/investment-accounts", deps.InvestmentHandler.HandleInvestmentAccounts)
	mux.HandleFunc("/api/investment-accounts/{id}/worth-history", deps.InvestmentHandler.HandleWorthHistory)
	mux.HandleFunc("/api/investment-accounts/{id}/assets", deps.InvestmentHandler.HandleAddAsset)
	mux.HandleFunc("/api/investment-assets/search", deps.InvestmentHandler.HandleAssetSearch)
	mux.HandleFunc("/api/investment-assets/{id}", deps.InvestmentHandler.HandleAssetByID)
	mux.HandleFunc("/api/investment-assets/{id}/price", deps.InvestmentHandler.HandleAssetPrice)

	// Reports
	mux.HandleFunc("/api/net-worth-trend", deps.ReportHandler.HandleNetWorthTrend)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	return handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
