package api

import (
	"context"
	"net/http"

	"github.com/okian/toolboard/internal/domain/model"
)

// SnapshotDependencies defines the interface for stored snapshot reads.
type SnapshotDependencies interface {
	LatestSnapshot(ctx context.Context) (model.Snapshot, error)
	Snapshot(ctx context.Context, week string) (model.Snapshot, error)
	Snapshots(ctx context.Context) ([]string, error)
}

// SnapshotHandler handles snapshot requests.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleListSnapshots handles GET /snapshots requests.
func (h *SnapshotHandler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_snapshots"
	weeks, err := h.deps.Snapshots(r.Context())
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"weeks": weeks})
}

// HandleGetLatest handles GET /snapshots/latest requests.
func (h *SnapshotHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_latest_snapshot"
	snap, err := h.deps.LatestSnapshot(r.Context())
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleGetSnapshot handles GET /snapshots/{week} requests.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	snap, err := h.deps.Snapshot(r.Context(), pathParam(r, "week"))
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
