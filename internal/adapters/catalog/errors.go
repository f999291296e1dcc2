package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNoFiles     = errors.New("no catalog files matched")
	ErrMissingID   = errors.New("tool record has no id")
	ErrDuplicateID = errors.New("duplicate tool id")
)
