// Package service wires the catalog, ranker and snapshot repository into the
// operations used by the HTTP API and the weekly batch command.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/toolboard/internal/adapters/catalog"
	"github.com/okian/toolboard/internal/adapters/repository"
	"github.com/okian/toolboard/internal/domain/delta"
	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/internal/domain/scoring"
	"github.com/okian/toolboard/internal/domain/week"
	"github.com/okian/toolboard/pkg/logger"
	"github.com/okian/toolboard/pkg/metrics"
)

// BatchResult describes one weekly snapshot run.
type BatchResult struct {
	RunID       string            `json:"runId"`
	Week        string            `json:"week"`
	PriorWeek   string            `json:"priorWeek,omitempty"` // empty on cold start
	Written     bool              `json:"written"`
	Tools       int               `json:"tools"`
	Categories  int               `json:"categories"`
	Significant []model.ToolScore `json:"significant"`
}

// Service implements the leaderboard operations.
type Service struct {
	mu sync.RWMutex

	catalog catalog.Source
	repo    repository.Repository
	ranker  *scoring.Ranker
	now     func() time.Time

	significantDelta int
	topMoversLimit   int

	started   bool
	startedAt time.Time
	lastRun   *BatchResult

	logger logger.Logger
}

// New constructs a Service. Without options it reads catalog/*.yaml and
// keeps snapshots under data/leaderboard-history.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:          catalog.NewFileSource("catalog/*.yaml"),
		repo:             repository.NewFileStore("data/leaderboard-history"),
		ranker:           scoring.NewRanker(),
		now:              time.Now,
		significantDelta: 5,
		topMoversLimit:   delta.DefaultTopMovers,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("significantDelta", s.significantDelta),
		logger.Int("topMoversLimit", s.topMoversLimit),
	)
	return nil
}

// Stop releases the repository when it holds resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.repo.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing snapshot repository", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// score loads the catalog and ranks it.
func (s *Service) score(ctx context.Context) ([]model.CategoryScores, int, error) {
	tools, err := s.catalog.Tools(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("catalog", "load")
		return nil, 0, fmt.Errorf("load catalog: %w", err)
	}

	start := time.Now()
	categories := s.ranker.Rank(tools)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordToolsScored(len(tools))
	metrics.UpdateCategories(len(categories))

	return categories, len(tools), nil
}

// annotate applies deltas against the latest snapshot. It returns the prior
// week, or "" when no snapshot exists.
func (s *Service) annotate(ctx context.Context, categories []model.CategoryScores) (string, error) {
	prior, err := s.repo.LoadLatest(ctx)
	if errors.Is(err, repository.ErrNoSnapshot) {
		return "", nil
	}
	if err != nil {
		metrics.RecordErrorByComponent("repository", "load")
		return "", fmt.Errorf("load latest snapshot: %w", err)
	}
	delta.Apply(categories, prior.Categories)
	return prior.Week, nil
}

// Leaderboard scores the catalog fresh and annotates it with deltas against
// the latest stored snapshot.
func (s *Service) Leaderboard(ctx context.Context) ([]model.CategoryScores, error) {
	categories, _, err := s.score(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.annotate(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Category returns one category of the current leaderboard.
func (s *Service) Category(ctx context.Context, name string) (model.CategoryScores, error) {
	categories, err := s.Leaderboard(ctx)
	if err != nil {
		return model.CategoryScores{}, err
	}
	for _, c := range categories {
		if c.Category == name {
			return c, nil
		}
	}
	return model.CategoryScores{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
}

// Tool returns the current score of one tool.
func (s *Service) Tool(ctx context.Context, id string) (model.ToolScore, error) {
	categories, err := s.Leaderboard(ctx)
	if err != nil {
		return model.ToolScore{}, err
	}
	for _, c := range categories {
		for _, t := range c.Tools {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return model.ToolScore{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
}

// TopMovers returns the biggest score movements of the current leaderboard.
// A non-positive limit uses the configured default.
func (s *Service) TopMovers(ctx context.Context, limit int) ([]model.ToolScore, error) {
	if limit <= 0 {
		limit = s.topMoversLimit
	}
	categories, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return delta.TopMovers(categories, limit), nil
}

// LatestSnapshot returns the most recent stored snapshot.
func (s *Service) LatestSnapshot(ctx context.Context) (model.Snapshot, error) {
	return s.repo.LoadLatest(ctx)
}

// Snapshot returns the stored snapshot for a week.
func (s *Service) Snapshot(ctx context.Context, id string) (model.Snapshot, error) {
	return s.repo.Load(ctx, id)
}

// Snapshots lists stored week identifiers, oldest first.
func (s *Service) Snapshots(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// RunSnapshot performs one weekly batch run: score, diff against the latest
// snapshot, persist unless this week already has one, and report
// significant movers. A second run in the same week writes nothing.
func (s *Service) RunSnapshot(ctx context.Context) (BatchResult, error) {
	runID := uuid.NewString()
	log := s.log().With(logger.String("run", runID))
	now := s.now().UTC()

	res := BatchResult{
		RunID:       runID,
		Week:        week.ID(now),
		Significant: []model.ToolScore{},
	}

	categories, n, err := s.score(ctx)
	if err != nil {
		return res, err
	}
	res.Tools = n
	res.Categories = len(categories)

	res.PriorWeek, err = s.annotate(ctx, categories)
	if err != nil {
		return res, err
	}
	if res.PriorWeek == "" {
		log.Info(ctx, "no prior snapshot, scoring without deltas", logger.String("week", res.Week))
	}

	exists, err := s.repo.Exists(ctx, res.Week)
	if err != nil {
		return res, fmt.Errorf("check snapshot %s: %w", res.Week, err)
	}
	if exists {
		metrics.RecordSnapshotSkipped()
		log.Info(ctx, "snapshot for week already exists, skipping write", logger.String("week", res.Week))
		s.remember(res)
		return res, nil
	}

	snap := model.Snapshot{Week: res.Week, Timestamp: now, Categories: categories}
	if err := s.repo.Save(ctx, snap); err != nil {
		if errors.Is(err, repository.ErrSnapshotExists) {
			metrics.RecordSnapshotSkipped()
			log.Info(ctx, "snapshot for week already exists, skipping write", logger.String("week", res.Week))
			s.remember(res)
			return res, nil
		}
		metrics.RecordErrorByComponent("repository", "save")
		return res, fmt.Errorf("save snapshot %s: %w", res.Week, err)
	}
	res.Written = true
	metrics.RecordSnapshotWritten(now.Unix())

	log.Info(ctx, "snapshot written",
		logger.String("week", res.Week),
		logger.String("priorWeek", res.PriorWeek),
		logger.Int("tools", res.Tools),
		logger.Int("categories", res.Categories),
	)

	res.Significant = delta.Significant(categories, s.significantDelta)
	metrics.UpdateSignificantMovers(len(res.Significant))
	for _, t := range res.Significant {
		log.Warn(ctx, "significant score movement",
			logger.String("tool", t.ID),
			logger.String("category", t.Category),
			logger.Int("scoreDelta", *t.ScoreDelta),
			logger.Int("rankDelta", *t.RankDelta),
			logger.Int("rank", t.Rank),
		)
	}

	s.remember(res)
	return res, nil
}

func (s *Service) remember(res BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = &res
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"significantDelta": s.significantDelta,
		"topMoversLimit":   s.topMoversLimit,
	}

	if s.started {
		stats["uptimeSeconds"] = int(s.now().Sub(s.startedAt).Seconds())

		if weeks, err := s.repo.List(context.Background()); err == nil {
			stats["snapshots"] = len(weeks)
			if len(weeks) > 0 {
				stats["latestWeek"] = weeks[len(weeks)-1]
			}
		}
	}
	if s.lastRun != nil {
		stats["lastRun"] = *s.lastRun
	}

	return stats
}
