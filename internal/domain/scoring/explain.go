package scoring

import (
	"sort"
	"strings"

	"github.com/okian/toolboard/internal/domain/model"
)

// phrases holds the canned phrase for each dimension.
var phrases = map[Dimension]string{
	Value:    "Strong value for the price",
	Quality:  "Top-tier output quality",
	Adoption: "Broad market adoption",
	UX:       "Excellent usability",
}

// Explain renders a one-sentence justification citing the two dimensions
// with the highest weighted contribution. Equal contributions keep the
// order of AllDimensions.
func Explain(d model.ScoreDimensions, w Weights) string {
	w = w.Normalized()

	type contribution struct {
		dim   Dimension
		score float64
	}
	contribs := make([]contribution, 0, len(AllDimensions))
	for _, dim := range AllDimensions {
		contribs = append(contribs, contribution{dim: dim, score: float64(Of(d, dim)) * w.Of(dim)})
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].score > contribs[j].score
	})

	return phrases[contribs[0].dim] + " combined with " + strings.ToLower(phrases[contribs[1].dim]) + "."
}
