// Package repository persists weekly leaderboard snapshots.
package repository

import (
	"context"

	"github.com/okian/toolboard/internal/domain/model"
)

// Repository stores immutable weekly snapshots keyed by week identifier.
type Repository interface {
	// Save persists snap. It returns ErrSnapshotExists when the week is
	// already stored and never overwrites it.
	Save(ctx context.Context, snap model.Snapshot) error

	// LoadLatest returns the snapshot with the greatest week identifier,
	// or ErrNoSnapshot when nothing is stored.
	LoadLatest(ctx context.Context) (model.Snapshot, error)

	// Load returns the snapshot for week, or ErrNoSnapshot.
	Load(ctx context.Context, week string) (model.Snapshot, error)

	// Exists reports whether week already has a snapshot.
	Exists(ctx context.Context, week string) (bool, error)

	// List returns every stored week identifier in ascending order.
	List(ctx context.Context) ([]string, error)
}

var (
	_ Repository = (*FileStore)(nil)
	_ Repository = (*SQLiteStore)(nil)
)
