package http

import (
	"encoding/json"
	"log"
	"net/http"

	"moneta/internal/domain/report"
)

type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleNetWorthTrend returns the trailing 12 month net worth series.
func (h *ReportHandler) HandleNetWorthTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	points, err := h.reports.NetWorthTrend(r.Context())
	if err != nil {
		log.Printf("Error computing net worth trend: %v", err)
		http.Error(w, "Failed to compute net worth trend", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(points)
}
