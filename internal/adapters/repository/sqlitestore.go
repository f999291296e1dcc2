package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/internal/domain/week"
	"github.com/okian/toolboard/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	week       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
)`

// SQLiteStore keeps snapshots as JSON payloads in a single SQLite table.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout int
	mkdirAll    bool
}

// OpenSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for an ephemeral store.
func OpenSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: 10_000}
	for _, opt := range opts {
		opt(s)
	}

	if s.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.busyTimeout),
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts snap. The primary key on week rejects a second write.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) error {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if !week.Valid(snap.Week) {
		return fmt.Errorf("%w: %q", ErrInvalidWeek, snap.Week)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.Week, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (week, created_at, payload) VALUES (?, ?, ?) ON CONFLICT(week) DO NOTHING`,
		snap.Week, snap.Timestamp.UTC().Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.Week, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.Week, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, snap.Week)
	}
	return nil
}

// LoadLatest returns the row with the greatest week.
func (s *SQLiteStore) LoadLatest(ctx context.Context) (model.Snapshot, error) {
	return s.load(ctx, `SELECT payload FROM snapshots ORDER BY week DESC LIMIT 1`)
}

// Load returns the row for id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (model.Snapshot, error) {
	if !week.Valid(id) {
		return model.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}
	return s.load(ctx, `SELECT payload FROM snapshots WHERE week = ?`, id)
}

func (s *SQLiteStore) load(ctx context.Context, query string, args ...any) (model.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var payload string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, ErrNoSnapshot
		}
		return model.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Exists reports whether a row for id is present.
func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	if !week.Valid(id) {
		return false, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM snapshots WHERE week = ?`, id).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("query snapshot %s: %w", id, err)
	}
}

// List returns every stored week, ascending.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT week FROM snapshots ORDER BY week ASC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	weeks := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan snapshot week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	metrics.UpdateSnapshotsStored(len(weeks))
	return weeks, nil
}
