// Package catalog loads the tool catalog that feeds the ranker.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/toolboard/internal/domain/model"
)

// Source supplies the full tool catalog in iteration order.
type Source interface {
	Tools(ctx context.Context) ([]model.ToolRecord, error)
}

// Static serves a fixed in-memory catalog.
type Static []model.ToolRecord

// Tools returns a copy of the catalog after validating ids.
func (s Static) Tools(ctx context.Context) ([]model.ToolRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.ToolRecord, len(s))
	copy(out, s)
	if err := validate(out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// validate enforces non-empty unique ids. origin, when set, names the file
// each record came from for error messages.
func validate(tools []model.ToolRecord, origin []string) error {
	seen := make(map[string]int, len(tools))
	where := func(i int) string {
		if origin == nil {
			return fmt.Sprintf("record %d", i)
		}
		return origin[i]
	}

	for i, t := range tools {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("%w: %s (name %q)", ErrMissingID, where(i), t.Name)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateID, id, where(prev), where(i))
		}
		seen[id] = i
	}
	return nil
}
