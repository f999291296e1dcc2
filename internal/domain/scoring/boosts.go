package scoring

import "github.com/okian/toolboard/internal/domain/model"

// Boost raises individual dimensions for one tool.
type Boost map[Dimension]int

// BoostTable maps tool ids to their manual boosts.
type BoostTable map[string]Boost

// NewBoostTable converts a config-shaped table (tool id -> dimension name ->
// points). Unknown dimension names are dropped.
func NewBoostTable(raw map[string]map[string]int) BoostTable {
	t := make(BoostTable, len(raw))
	for id, dims := range raw {
		b := Boost{}
		for k, v := range dims {
			if d, ok := ParseDimension(k); ok {
				b[d] = v
			}
		}
		if len(b) > 0 {
			t[id] = b
		}
	}
	return t
}

// DefaultBoosts returns a fresh copy of the built-in editorial boosts.
func DefaultBoosts() map[string]map[string]int {
	return map[string]map[string]int{
		"apollo-io":      {"adoption": 10},
		"zoominfo":       {"adoption": 10, "quality": 5},
		"synthesia":      {"quality": 5},
		"chatgpt":        {"adoption": 15},
		"github-copilot": {"adoption": 10, "ux": 5},
	}
}

// apply adds the boost to d, capping each boosted dimension at 100.
func (b Boost) apply(d model.ScoreDimensions) model.ScoreDimensions {
	for dim, pts := range b {
		switch dim {
		case Value:
			d.Value = min(d.Value+pts, maxScore)
		case Quality:
			d.Quality = min(d.Quality+pts, maxScore)
		case Adoption:
			d.Adoption = min(d.Adoption+pts, maxScore)
		case UX:
			d.UX = min(d.UX+pts, maxScore)
		}
	}
	return d
}
