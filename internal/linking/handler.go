package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cnqrstore/backend/internal/middleware"
	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/repository"
)

// LinkStore is the username_links read surface.
type LinkStore interface {
	Get(ctx context.Context, discordID, serverID string) (*models.UsernameLink, error)
	ListServerIDs(ctx context.Context) ([]string, error)
}

// Handler serves the server list and the linked-account check. Players only
// see servers that have at least one linked account.
type Handler struct {
	links LinkStore
	log   *slog.Logger
}

func NewHandler(links LinkStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{links: links, log: log}
}

// ListServers handles GET /api/v1/servers.
func (h *Handler) ListServers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.links.ListServerIDs(r.Context())
	if err != nil {
		h.log.Error("server listing failed", "error", err)
		http.Error(w, `{"error":"failed to fetch servers"}`, http.StatusInternalServerError)
		return
	}
	servers := make([]models.GameServer, 0, len(ids))
	for _, id := range ids {
		servers = append(servers, models.GameServer{
			ID:          id,
			Name:        fmt.Sprintf("Server %s", id),
			Description: fmt.Sprintf("CNQR Server %s", id),
			Active:      true,
		})
	}
	writeJSON(w, http.StatusOK, servers)
}

type checkLinkRequest struct {
	ServerID string `json:"server_id"`
}

type checkLinkResponse struct {
	IsLinked bool   `json:"is_linked"`
	Username string `json:"username,omitempty"`
}

// CheckLink handles POST /api/v1/check-link. An absent link is a normal
// answer, not an error.
func (h *Handler) CheckLink(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req checkLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.ServerID == "" {
		http.Error(w, `{"error":"server_id is required"}`, http.StatusBadRequest)
		return
	}

	link, err := h.links.Get(r.Context(), id.DiscordID, req.ServerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, checkLinkResponse{IsLinked: false})
			return
		}
		h.log.Error("link check failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, checkLinkResponse{IsLinked: true, Username: link.Username})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
