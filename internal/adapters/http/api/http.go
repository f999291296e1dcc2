// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/toolboard/internal/adapters/repository"
	service "github.com/okian/toolboard/internal/app"
	"github.com/okian/toolboard/pkg/logger"
)

// Dependencies bundles the reads the HTTP handlers need.
type Dependencies interface {
	LeaderboardDependencies
	ToolDependencies
	MoversDependencies
	SnapshotDependencies
}

// Server wires HTTP routes for the read-only leaderboard API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	toolHandler        *ToolHandler
	moversHandler      *MoversHandler
	snapshotHandler    *SnapshotHandler
	logger             logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the access logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers. maxMovers caps the
// ?limit of GET /movers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxMovers int, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		toolHandler:        NewToolHandler(deps),
		moversHandler:      NewMoversHandler(deps, maxMovers),
		snapshotHandler:    NewSnapshotHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes and middleware to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(RequestID)
	if s.logger != nil {
		r.Use(AccessLog(s.logger))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	r.Get("/leaderboard/{category}", MetricsMiddleware(s.leaderboardHandler.HandleGetCategory, "leaderboard_category"))
	r.Get("/tools/{id}", MetricsMiddleware(s.toolHandler.HandleGetTool, "tools"))
	r.Get("/movers", MetricsMiddleware(s.moversHandler.HandleGetMovers, "movers"))
	r.Get("/snapshots", MetricsMiddleware(s.snapshotHandler.HandleListSnapshots, "snapshots"))
	r.Get("/snapshots/latest", MetricsMiddleware(s.snapshotHandler.HandleGetLatest, "snapshots_latest"))
	r.Get("/snapshots/{week}", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshots_week"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps upstream sentinels onto HTTP statuses.
func writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, repository.ErrNoSnapshot) ||
		errors.Is(err, service.ErrCategoryNotFound) ||
		errors.Is(err, service.ErrToolNotFound)
}

// compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)
