package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/internal/domain/week"
	"github.com/okian/toolboard/pkg/metrics"
)

const snapshotExt = ".json"

// FileStore keeps one "<week>.json" document per week in a flat directory.
// Writes go to a temp file in the same directory and are renamed into place.
type FileStore struct {
	dir      string
	fileMode os.FileMode
	indent   string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// lazily on the first Save.
func NewFileStore(dir string, opts ...FileOption) *FileStore {
	s := &FileStore{
		dir:      dir,
		fileMode: 0o644,
		indent:   "  ",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the snapshot directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+snapshotExt)
}

// Save writes snap atomically.
func (s *FileStore) Save(ctx context.Context, snap model.Snapshot) error {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !week.Valid(snap.Week) {
		return fmt.Errorf("%w: %q", ErrInvalidWeek, snap.Week)
	}

	target := s.path(snap.Week)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, snap.Week)
	}

	var data []byte
	var err error
	if s.indent != "" {
		data, err = json.MarshalIndent(snap, "", s.indent)
	} else {
		data, err = json.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.Week, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+snap.Week+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}

	// Link fails if target appeared since the Stat above, so an existing week
	// is never replaced.
	if err := os.Link(tmpName, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSnapshotExists, snap.Week)
		}
		if err := os.Rename(tmpName, target); err != nil {
			return fmt.Errorf("rename snapshot: %w", err)
		}
	}

	return nil
}

// List returns week identifiers of every snapshot file, ascending.
// A missing directory yields an empty list.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	weeks := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(e.Name(), snapshotExt)
		if !ok || !week.Valid(id) {
			continue
		}
		weeks = append(weeks, id)
	}
	sort.Strings(weeks)

	metrics.UpdateSnapshotsStored(len(weeks))
	return weeks, nil
}

// LoadLatest parses the lexicographically greatest snapshot file.
func (s *FileStore) LoadLatest(ctx context.Context) (model.Snapshot, error) {
	weeks, err := s.List(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(weeks) == 0 {
		return model.Snapshot{}, ErrNoSnapshot
	}
	return s.Load(ctx, weeks[len(weeks)-1])
}

// Load parses the snapshot for id.
func (s *FileStore) Load(ctx context.Context, id string) (model.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	if !week.Valid(id) {
		return model.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Snapshot{}, ErrNoSnapshot
		}
		return model.Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Exists reports whether a file for id is present.
func (s *FileStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !week.Valid(id) {
		return false, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}

	_, err := os.Stat(s.path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat snapshot %s: %w", id, err)
	}
}
