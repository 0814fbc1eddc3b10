package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cnqrstore/backend/internal/notify"
)

type Handler struct {
	svc    *Service
	sender *notify.Sender
	log    *slog.Logger
}

func NewHandler(svc *Service, sender *notify.Sender, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, sender: sender, log: log}
}

type verifyPINRequest struct {
	PIN string `json:"pin"`
}

// VerifyPIN handles POST /api/v1/admin/verify-pin.
func (h *Handler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req verifyPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.PIN == "" {
		http.Error(w, `{"error":"pin is required"}`, http.StatusBadRequest)
		return
	}
	token, err := h.svc.VerifyPIN(req.PIN)
	if err != nil {
		if errors.Is(err, ErrInvalidPIN) {
			http.Error(w, `{"error":"invalid pin"}`, http.StatusUnauthorized)
			return
		}
		h.log.Error("admin pin verification failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// TestWebhook handles POST /api/v1/admin/test-webhook (admin only): posts a
// test embed synchronously so an operator sees the result immediately.
func (h *Handler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.sender.Configured() {
		http.Error(w, `{"error":"webhook not configured"}`, http.StatusBadRequest)
		return
	}
	if err := h.sender.Post(r.Context(), notify.TestMessage(time.Now())); err != nil {
		h.log.Error("webhook test failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": "webhook unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
