package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cnqrstore/backend/internal/middleware"
	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/repository"
)

// TransactionReader serves the lookup endpoints.
type TransactionReader interface {
	GetBySessionID(ctx context.Context, sessionID string) (*models.StoreTransaction, error)
	ListByDiscordID(ctx context.Context, discordID string) ([]*models.StoreTransaction, error)
}

type Handler struct {
	svc  *Service
	txns TransactionReader
	log  *slog.Logger
}

func NewHandler(svc *Service, txns TransactionReader, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, txns: txns, log: log}
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
}

// Verify handles POST /api/v1/verify-payment.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, `{"error":"session_id is required"}`, http.StatusBadRequest)
		return
	}

	res, err := h.svc.Verify(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, `{"success":false,"error":"transaction not found"}`, http.StatusNotFound)
		case errors.Is(err, ErrPaymentIncomplete):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false, "error": "payment not completed",
			})
		default:
			h.log.Error("payment verification failed", "session_id", req.SessionID, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"success": false, "error": "failed to verify payment",
			})
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetTransaction handles GET /api/v1/transactions/{sessionId}.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	txn, err := h.txns.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"transaction not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("transaction lookup failed", "session_id", sessionID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// ListMine handles GET /api/v1/user/transactions for the authenticated buyer.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.txns.ListByDiscordID(r.Context(), id.DiscordID)
	if err != nil {
		h.log.Error("user transaction listing failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
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
