package repository

import "errors"

// Sentinel kinds for snapshot repository errors.
var (
	ErrNoSnapshot     = errors.New("no snapshot found")
	ErrSnapshotExists = errors.New("snapshot already exists for week")
	ErrInvalidWeek    = errors.New("invalid week identifier")
)
