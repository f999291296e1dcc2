package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/okian/toolboard/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) ([]model.CategoryScores, error)
	Category(ctx context.Context, name string) (model.CategoryScores, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	categories, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	if categories == nil {
		categories = []model.CategoryScores{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleGetCategory handles GET /leaderboard/{category} requests.
func (h *LeaderboardHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_category"
	name := pathParam(r, "category")
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	category, err := h.deps.Category(r.Context(), name)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// pathParam returns the unescaped chi route parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
