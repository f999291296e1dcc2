package api

import (
	"context"
	"net/http"

	"github.com/okian/toolboard/internal/domain/model"
)

// ToolDependencies defines the interface for single-tool reads.
type ToolDependencies interface {
	Tool(ctx context.Context, id string) (model.ToolScore, error)
}

// ToolHandler handles tool requests.
type ToolHandler struct {
	deps ToolDependencies
}

// NewToolHandler creates a new tool handler.
func NewToolHandler(deps ToolDependencies) *ToolHandler {
	return &ToolHandler{deps: deps}
}

// HandleGetTool handles GET /tools/{id} requests.
func (h *ToolHandler) HandleGetTool(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tool"
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	tool, err := h.deps.Tool(r.Context(), id)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}
