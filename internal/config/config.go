// Package config defines service configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and TOOLBOARD_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Snapshot backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath is a doublestar glob of catalog files.
	CatalogPath string `koanf:"catalog_path"`

	// SnapshotBackend is "file" or "sqlite".
	SnapshotBackend string `koanf:"snapshot_backend"`
	SnapshotDir     string `koanf:"snapshot_dir"`
	SnapshotDB      string `koanf:"snapshot_db"`

	// SignificantDelta is the score movement (exclusive) the batch run reports.
	SignificantDelta int `koanf:"significant_delta"`

	// TopMoversLimit is the default Top-Movers size; MaxMoversLimit caps ?limit.
	TopMoversLimit int `koanf:"top_movers_limit"`
	MaxMoversLimit int `koanf:"max_movers_limit"`

	// AdoptionJitter bounds the random adoption noise. Zero keeps scoring
	// deterministic.
	AdoptionJitter float64 `koanf:"adoption_jitter"`
	JitterSeed     int64   `koanf:"jitter_seed"`

	// CategoryWeights maps a category to a partial dimension weighting.
	CategoryWeights map[string]map[string]float64 `koanf:"category_weights"`

	// DefaultWeights applies to categories without an entry.
	DefaultWeights map[string]float64 `koanf:"default_weights"`

	// Boosts maps a tool id to dimension points.
	Boosts map[string]map[string]int `koanf:"boosts"`

	// EditorCallouts maps a category to its callout text.
	EditorCallouts map[string]string `koanf:"editor_callouts"`
}

// New creates a Config holding the built-in defaults. The weight, boost and
// callout tables start empty; the scoring package supplies its own defaults
// for anything not configured here.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		CatalogPath:      "catalog/*.yaml",
		SnapshotBackend:  BackendFile,
		SnapshotDir:      "data/leaderboard-history",
		SnapshotDB:       "data/leaderboard.db",
		SignificantDelta: 5,
		TopMoversLimit:   5,
		MaxMoversLimit:   100,
		AdoptionJitter:   0,
		JitterSeed:       42,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "addr must not be empty")
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		problems = append(problems, "catalog_path must not be empty")
	}
	switch c.SnapshotBackend {
	case BackendFile:
		if c.SnapshotDir == "" {
			problems = append(problems, "snapshot_dir must not be empty")
		}
	case BackendSQLite:
		if c.SnapshotDB == "" {
			problems = append(problems, "snapshot_db must not be empty")
		}
	default:
		problems = append(problems, fmt.Sprintf("snapshot_backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.SnapshotBackend))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.SignificantDelta < 0 {
		problems = append(problems, "significant_delta must be >= 0")
	}
	if c.TopMoversLimit <= 0 {
		problems = append(problems, "top_movers_limit must be > 0")
	}
	if c.MaxMoversLimit <= 0 {
		problems = append(problems, "max_movers_limit must be > 0")
	}
	if c.AdoptionJitter < 0 || c.AdoptionJitter > 100 {
		problems = append(problems, "adoption_jitter must be within [0,100]")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
