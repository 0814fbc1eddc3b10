package pricing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cnqrstore/backend/internal/models"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

type modeResponse struct {
	Mode    models.PriceMode `json:"mode"`
	Success bool             `json:"success"`
}

// GetMode handles GET /api/v1/price-mode. Public: the storefront shows a
// discount/surge banner from it.
func (h *Handler) GetMode(w http.ResponseWriter, r *http.Request) {
	mode := h.svc.CurrentMode(r.Context())
	writeJSON(w, http.StatusOK, modeResponse{Mode: mode, Success: true})
}

type setModeRequest struct {
	Mode models.PriceMode `json:"mode"`
}

// SetMode handles POST /api/v1/price-mode (admin only, enforced by middleware).
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := h.svc.SetMode(r.Context(), req.Mode); err != nil {
		if errors.Is(err, ErrInvalidMode) {
			http.Error(w, `{"error":"invalid mode"}`, http.StatusBadRequest)
			return
		}
		h.log.Error("set price mode failed", "error", err)
		http.Error(w, `{"error":"failed to update price mode"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Mode: req.Mode, Success: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
