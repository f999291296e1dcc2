package service

import (
	"time"

	"github.com/okian/toolboard/internal/adapters/catalog"
	"github.com/okian/toolboard/internal/adapters/repository"
	"github.com/okian/toolboard/internal/domain/scoring"
	"github.com/okian/toolboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the tool catalog source.
func WithCatalog(src catalog.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.catalog = src
		}
	}
}

// WithRepository sets the snapshot repository.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithRanker sets the ranker used for every scoring run.
func WithRanker(r *scoring.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithClock overrides the time source used to derive the week identifier.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSignificantDelta sets the score movement a batch run reports.
// Movements strictly greater than threshold are significant.
func WithSignificantDelta(threshold int) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.significantDelta = threshold
		}
	}
}

// WithTopMoversLimit sets the Top-Movers size used when callers pass none.
func WithTopMoversLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.topMoversLimit = limit
		}
	}
}
