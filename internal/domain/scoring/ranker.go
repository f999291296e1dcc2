package scoring

import (
	"sort"

	"github.com/okian/toolboard/internal/domain/model"
)

// RankerOption applies a configuration option to the Ranker.
type RankerOption func(*Ranker)

// WithDimensionScorer sets the scorer used for every tool.
func WithDimensionScorer(s *DimensionScorer) RankerOption {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithWeightTable sets the category weighting.
func WithWeightTable(t *WeightTable) RankerOption {
	return func(r *Ranker) {
		if t != nil {
			r.weights = t
		}
	}
}

// WithCallouts sets the editorial callout per category.
func WithCallouts(callouts map[string]string) RankerOption {
	return func(r *Ranker) {
		// Copy to avoid external modifications
		r.callouts = make(map[string]string, len(callouts))
		for k, v := range callouts {
			r.callouts[k] = v
		}
	}
}

// DefaultCallouts returns a fresh copy of the built-in editorial callouts.
func DefaultCallouts() map[string]string {
	return map[string]string{
		"Video":              "Editor's pick for creators publishing every week.",
		"Sales Intelligence": "Data coverage matters more than UI polish here.",
		"Writing":            "Try the free tiers before committing to an annual plan.",
	}
}

// Ranker scores a whole catalog and ranks tools within each category.
type Ranker struct {
	scorer   *DimensionScorer
	weights  *WeightTable
	callouts map[string]string
}

// NewRanker creates a Ranker with the default weight table, no boosts,
// no jitter and no callouts.
func NewRanker(opts ...RankerOption) *Ranker {
	r := &Ranker{
		scorer:   NewDimensionScorer(),
		weights:  DefaultWeightTable(),
		callouts: map[string]string{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ScoreTool computes dimensions, total and explanation for one tool.
// Rank is left at zero.
func (r *Ranker) ScoreTool(t model.ToolRecord) model.ToolScore {
	dims := r.scorer.Score(t)
	w := r.weights.For(t.Category)
	return model.ToolScore{
		ID:          t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Dimensions:  dims,
		TotalScore:  TotalScore(dims, w),
		Explanation: Explain(dims, w),
	}
}

// Rank scores every tool, groups by category in order of first appearance,
// sorts each category by total score descending (ties keep catalog order)
// and assigns ranks 1..N.
func (r *Ranker) Rank(tools []model.ToolRecord) []model.CategoryScores {
	index := make(map[string]int)
	var out []model.CategoryScores

	for _, t := range tools {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, model.CategoryScores{
				Category:      t.Category,
				EditorCallout: r.callouts[t.Category],
			})
		}
		out[i].Tools = append(out[i].Tools, r.ScoreTool(t))
	}

	for i := range out {
		list := out[i].Tools
		sort.SliceStable(list, func(a, b int) bool {
			return list[a].TotalScore > list[b].TotalScore
		})
		for pos := range list {
			list[pos].Rank = pos + 1
		}
	}

	return out
}
