package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/repository"
)

// AdminPackageStore is the write side of the package repository, used by the
// admin CRUD endpoints.
type AdminPackageStore interface {
	ListAll(ctx context.Context) ([]*models.Package, error)
	Create(ctx context.Context, p *models.Package) error
	Update(ctx context.Context, p *models.Package) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc   *Service
	admin AdminPackageStore
	log   *slog.Logger
}

func NewHandler(svc *Service, admin AdminPackageStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, admin: admin, log: log}
}

// List handles GET /api/v1/packages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListPackages(r.Context()))
}

// ListAll handles GET /api/v1/admin/packages (includes inactive rows).
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.admin.ListAll(r.Context())
	if err != nil {
		h.log.Error("admin package listing failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if pkgs == nil {
		pkgs = []*models.Package{}
	}
	writeJSON(w, http.StatusOK, pkgs)
}

type packageRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Credits     int64           `json:"credits"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Active      *bool           `json:"active"`
	Popular     bool            `json:"popular"`
	BestValue   bool            `json:"best_value"`
	SortOrder   int             `json:"sort_order"`
}

func (req *packageRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Credits <= 0 {
		return "credits must be > 0"
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return "price must be > 0"
	}
	return ""
}

// Create handles POST /api/v1/packages (admin).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &models.Package{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
		BasePrice:   req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    active,
		IsPopular:   req.Popular,
		IsBestValue: req.BestValue,
		SortOrder:   req.SortOrder,
	}
	if err := h.admin.Create(r.Context(), p); err != nil {
		h.log.Error("create package failed", "error", err)
		http.Error(w, `{"error":"failed to create package"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/v1/packages/{id} (admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid package id"}`, http.StatusBadRequest)
		return
	}
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &models.Package{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
		BasePrice:   req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    active,
		IsPopular:   req.Popular,
		IsBestValue: req.BestValue,
		SortOrder:   req.SortOrder,
	}
	if err := h.admin.Update(r.Context(), p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"package not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("update package failed", "error", err)
		http.Error(w, `{"error":"failed to update package"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/v1/packages/{id} (admin). Packages are
// deactivated rather than removed so old transactions keep their reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid package id"}`, http.StatusBadRequest)
		return
	}
	if err := h.admin.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"package not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("deactivate package failed", "error", err)
		http.Error(w, `{"error":"failed to delete package"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
