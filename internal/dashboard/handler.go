package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/repository"
)

// TransactionStats is the admin-facing transaction repository surface.
type TransactionStats interface {
	Stats(ctx context.Context) (*repository.StoreStats, error)
	MonthlyRevenue(ctx context.Context, months int) ([]repository.MonthlyRevenuePoint, error)
	ListAll(ctx context.Context) ([]*models.StoreTransaction, error)
}

// Handler serves the admin dashboard API (the dashboard UI lives elsewhere).
type Handler struct {
	txns TransactionStats
	log  *slog.Logger
}

func NewHandler(txns TransactionStats, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{txns: txns, log: log}
}

type statsResponse struct {
	*repository.StoreStats
	ChartData []repository.MonthlyRevenuePoint `json:"chart_data"`
}

// GetStats handles GET /api/v1/admin/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.txns.Stats(r.Context())
	if err != nil {
		h.log.Error("stats query failed", "error", err)
		http.Error(w, `{"error":"failed to fetch stats"}`, http.StatusInternalServerError)
		return
	}
	chart, err := h.txns.MonthlyRevenue(r.Context(), 6)
	if err != nil {
		h.log.Error("revenue chart query failed", "error", err)
		http.Error(w, `{"error":"failed to fetch stats"}`, http.StatusInternalServerError)
		return
	}
	if chart == nil {
		chart = []repository.MonthlyRevenuePoint{}
	}
	writeJSON(w, http.StatusOK, statsResponse{StoreStats: stats, ChartData: chart})
}

// ListTransactions handles GET /api/v1/admin/transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.txns.ListAll(r.Context())
	if err != nil {
		h.log.Error("transaction listing failed", "error", err)
		http.Error(w, `{"error":"failed to fetch transactions"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.StoreTransaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": list})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
