// Package site renders the public leaderboard page.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/pkg/logger"
	"github.com/okian/toolboard/pkg/metrics"
)

// ErrRender is returned when the page template fails.
var ErrRender = errors.New("leaderboard page render failed")

//go:embed templates/*.html
var templateFS embed.FS

var page = template.Must(template.New("leaderboard.html").Funcs(template.FuncMap{
	"delta":      formatDelta,
	"deltaClass": deltaClass,
}).ParseFS(templateFS, "templates/leaderboard.html"))

// Source supplies the current leaderboard.
type Source interface {
	Leaderboard(ctx context.Context) ([]model.CategoryScores, error)
}

// RootHandler serves the leaderboard page.
type RootHandler struct {
	src Source
}

// NewRootHandler creates a new root handler.
func NewRootHandler(src Source) *RootHandler {
	return &RootHandler{src: src}
}

// Register attaches GET / to r.
func Register(_ context.Context, r chi.Router, src Source) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", NewRootHandler(src).HandleRoot)
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	categories, err := h.src.Leaderboard(r.Context())
	if err != nil {
		metrics.RecordErrorByEndpoint("/", http.MethodGet, "leaderboard")
		logger.Get().Error(r.Context(), "leaderboard page", logger.Error(err))
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, categories); err != nil {
		metrics.RecordErrorByEndpoint("/", http.MethodGet, "render")
		logger.Get().Error(r.Context(), "leaderboard page", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func formatDelta(d *int) string {
	switch {
	case d == nil:
		return "new"
	case *d == 0:
		return "="
	default:
		return fmt.Sprintf("%+d", *d)
	}
}

func deltaClass(d *int) string {
	switch {
	case d == nil:
		return "new"
	case *d > 0:
		return "up"
	case *d < 0:
		return "down"
	}
	return "flat"
}
