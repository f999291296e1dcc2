package service

import "errors"

// Sentinel kinds for service lookups.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrToolNotFound     = errors.New("tool not found")
)
