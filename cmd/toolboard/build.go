package main

import (
	"context"
	"fmt"
	"maps"
	"math/rand"

	"github.com/okian/toolboard/internal/adapters/catalog"
	"github.com/okian/toolboard/internal/adapters/repository"
	service "github.com/okian/toolboard/internal/app"
	"github.com/okian/toolboard/internal/config"
	"github.com/okian/toolboard/internal/domain/scoring"
	"github.com/okian/toolboard/pkg/logger"
)

// buildRanker layers the configured tables over the built-in ones. A
// category listed in config replaces its built-in tuple key by key.
func buildRanker(cfg *config.Config) *scoring.Ranker {
	fallback := scoring.DefaultWeights().Merge(cfg.DefaultWeights)

	categories := scoring.DefaultCategoryWeights()
	for name, partial := range cfg.CategoryWeights {
		merged := make(map[string]float64, len(categories[name])+len(partial))
		maps.Copy(merged, categories[name])
		maps.Copy(merged, partial)
		categories[name] = merged
	}

	boosts := scoring.DefaultBoosts()
	for id, dims := range cfg.Boosts {
		merged := make(map[string]int, len(boosts[id])+len(dims))
		maps.Copy(merged, boosts[id])
		maps.Copy(merged, dims)
		boosts[id] = merged
	}

	callouts := scoring.DefaultCallouts()
	maps.Copy(callouts, cfg.EditorCallouts)

	scorerOpts := []scoring.Option{scoring.WithBoosts(scoring.NewBoostTable(boosts))}
	if cfg.AdoptionJitter > 0 {
		scorerOpts = append(scorerOpts, scoring.WithAdoptionJitter(cfg.AdoptionJitter, rand.New(rand.NewSource(cfg.JitterSeed)))) //nolint:gosec // editorial noise, not security
	}

	return scoring.NewRanker(
		scoring.WithDimensionScorer(scoring.NewDimensionScorer(scorerOpts...)),
		scoring.WithWeightTable(scoring.NewWeightTable(fallback, categories)),
		scoring.WithCallouts(callouts),
	)
}

// openRepository opens the configured snapshot backend.
func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.SnapshotBackend {
	case config.BackendSQLite:
		store, err := repository.OpenSQLiteStore(ctx, cfg.SnapshotDB, repository.WithMkdirAll())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.BackendFile, "":
		return repository.NewFileStore(cfg.SnapshotDir), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

// newService wires and starts the leaderboard service. Callers must Stop it.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := service.New(
		service.WithLogger(logger.Named("leaderboard")),
		service.WithCatalog(catalog.NewFileSource(cfg.CatalogPath)),
		service.WithRepository(repo),
		service.WithRanker(buildRanker(cfg)),
		service.WithSignificantDelta(cfg.SignificantDelta),
		service.WithTopMoversLimit(cfg.TopMoversLimit),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
