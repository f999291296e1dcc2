package repository

import "os"

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permission bits of written snapshot files.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithIndent pretty-prints snapshot JSON with the given indent.
func WithIndent(indent string) FileOption {
	return func(s *FileStore) {
		s.indent = indent
	}
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds.
func WithBusyTimeout(ms int) SQLiteOption {
	return func(s *SQLiteStore) {
		if ms > 0 {
			s.busyTimeout = ms
		}
	}
}

// WithMkdirAll creates the parent directory of the database file.
func WithMkdirAll() SQLiteOption {
	return func(s *SQLiteStore) {
		s.mkdirAll = true
	}
}
