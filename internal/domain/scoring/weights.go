package scoring

import (
	"math"
	"strings"

	"github.com/okian/toolboard/internal/domain/model"
)

// Dimension names one of the four scoring dimensions.
type Dimension string

// Scoring dimensions. The order of AllDimensions breaks ties wherever
// dimensions are sorted.
const (
	Value    Dimension = "value"
	Quality  Dimension = "quality"
	Adoption Dimension = "adoption"
	UX       Dimension = "ux"
)

// AllDimensions lists every dimension in canonical order.
var AllDimensions = []Dimension{Value, Quality, Adoption, UX}

// ParseDimension maps a config key to a Dimension.
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Value, Quality, Adoption, UX:
		return d, true
	}
	return "", false
}

// Of returns the score for dimension d.
func Of(s model.ScoreDimensions, d Dimension) int {
	switch d {
	case Value:
		return s.Value
	case Quality:
		return s.Quality
	case Adoption:
		return s.Adoption
	case UX:
		return s.UX
	}
	return 0
}

// Weights is the relative importance of each dimension for a category.
type Weights struct {
	Value    float64
	Quality  float64
	Adoption float64
	UX       float64
}

// DefaultWeights is used for categories without an entry in the table.
func DefaultWeights() Weights {
	return Weights{Value: 0.25, Quality: 0.30, Adoption: 0.25, UX: 0.20}
}

// Of returns the weight for dimension d.
func (w Weights) Of(d Dimension) float64 {
	switch d {
	case Value:
		return w.Value
	case Quality:
		return w.Quality
	case Adoption:
		return w.Adoption
	case UX:
		return w.UX
	}
	return 0
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Value + w.Quality + w.Adoption + w.UX
}

// Normalized scales the weights to sum to 1. Weights with a non-positive
// sum normalize to DefaultWeights.
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Value:    w.Value / sum,
		Quality:  w.Quality / sum,
		Adoption: w.Adoption / sum,
		UX:       w.UX / sum,
	}
}

// Merge overlays a partial weight map on w. Unknown keys and negative
// values are ignored.
func (w Weights) Merge(partial map[string]float64) Weights {
	for k, v := range partial {
		d, ok := ParseDimension(k)
		if !ok || v < 0 {
			continue
		}
		switch d {
		case Value:
			w.Value = v
		case Quality:
			w.Quality = v
		case Adoption:
			w.Adoption = v
		case UX:
			w.UX = v
		}
	}
	return w
}

// WeightTable maps category names to their weights.
type WeightTable struct {
	fallback   Weights
	categories map[string]Weights
}

// NewWeightTable builds a table from partial per-category weight maps
// (keys: value, quality, adoption, ux). Missing dimensions take the
// fallback's value.
func NewWeightTable(fallback Weights, partial map[string]map[string]float64) *WeightTable {
	t := &WeightTable{
		fallback:   fallback,
		categories: make(map[string]Weights, len(partial)),
	}
	for category, p := range partial {
		t.categories[category] = fallback.Merge(p)
	}
	return t
}

// DefaultWeightTable returns the built-in category weighting.
func DefaultWeightTable() *WeightTable {
	return NewWeightTable(DefaultWeights(), DefaultCategoryWeights())
}

// DefaultCategoryWeights returns a fresh copy of the built-in partial
// weight tuples.
func DefaultCategoryWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"Video":              {"value": 0.20, "quality": 0.40, "adoption": 0.15, "ux": 0.25},
		"Image":              {"value": 0.20, "quality": 0.45, "adoption": 0.15, "ux": 0.20},
		"Writing":            {"value": 0.25, "quality": 0.35, "adoption": 0.20, "ux": 0.20},
		"Coding":             {"value": 0.15, "quality": 0.45, "adoption": 0.25, "ux": 0.15},
		"Sales Intelligence": {"value": 0.20, "quality": 0.25, "adoption": 0.40, "ux": 0.15},
		"Automation":         {"value": 0.25, "quality": 0.20, "adoption": 0.20, "ux": 0.35},
		"Chatbots":           {"quality": 0.35, "ux": 0.30},
	}
}

// For returns the normalized weights for category. Unknown categories get
// the fallback weights.
func (t *WeightTable) For(category string) Weights {
	w, ok := t.categories[category]
	if !ok {
		w = t.fallback
	}
	return w.Normalized()
}

// Categories returns the number of categories with explicit weights.
func (t *WeightTable) Categories() int {
	return len(t.categories)
}

// TotalScore folds dimension scores into a rounded weighted total in [0,100].
func TotalScore(d model.ScoreDimensions, w Weights) int {
	w = w.Normalized()
	total := 0.0
	for _, dim := range AllDimensions {
		total += float64(Of(d, dim)) * w.Of(dim)
	}
	return clamp(int(math.Round(total)))
}
