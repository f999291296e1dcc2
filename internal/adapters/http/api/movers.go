package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/toolboard/internal/domain/model"
)

// MoversDependencies defines the interface for Top-Movers reads.
type MoversDependencies interface {
	// TopMovers treats a non-positive limit as "use the default".
	TopMovers(ctx context.Context, limit int) ([]model.ToolScore, error)
}

// MoversHandler handles top movers requests.
type MoversHandler struct {
	deps     MoversDependencies
	maxLimit int
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(deps MoversDependencies, maxLimit int) *MoversHandler {
	return &MoversHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetMovers handles GET /movers?limit=N requests. limit is optional.
func (h *MoversHandler) HandleGetMovers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movers"
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: limit must be a positive integer: %w", op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: limit must be at most %d: %w", op, h.maxLimit, ErrBadRequest))
			return
		}
		limit = n
	}

	movers, err := h.deps.TopMovers(r.Context(), limit)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	if movers == nil {
		movers = []model.ToolScore{}
	}
	writeJSON(w, http.StatusOK, movers)
}
