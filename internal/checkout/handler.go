package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cnqrstore/backend/internal/middleware"
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

type checkoutRequest struct {
	PackageID string `json:"package_id"`
	ServerID  string `json:"server_id"`
}

// Create handles POST /api/v1/checkout. The caller's Discord identity is
// asserted by the identity middleware, not re-verified here.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		http.Error(w, `{"error":"invalid package_id"}`, http.StatusBadRequest)
		return
	}

	res, err := h.svc.Initiate(r.Context(), InitiateInput{
		PackageID: packageID,
		ServerID:  req.ServerID,
		DiscordID: id.DiscordID,
		Email:     id.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPackageNotFound):
			http.Error(w, `{"error":"package not found"}`, http.StatusNotFound)
		case errors.Is(err, ErrPackageInactive):
			http.Error(w, `{"error":"package is not available"}`, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidServer):
			http.Error(w, `{"error":"server_id is required"}`, http.StatusBadRequest)
		default:
			h.log.Error("checkout failed", "error", err)
			http.Error(w, `{"error":"payment setup failed"}`, http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}
