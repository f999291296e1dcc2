// Package delta compares a scoring run against a prior snapshot.
package delta

import (
	"sort"

	"github.com/okian/toolboard/internal/domain/model"
)

// DefaultTopMovers is the Top-Movers limit used when none is given.
const DefaultTopMovers = 5

type key struct {
	category string
	id       string
}

// Apply annotates current in place with rank and score deltas against prior.
// Tools are matched on (category, id); unmatched tools keep nil deltas.
func Apply(current, prior []model.CategoryScores) {
	previous := make(map[key]model.ToolScore)
	for _, c := range prior {
		for _, t := range c.Tools {
			previous[key{category: c.Category, id: t.ID}] = t
		}
	}

	for ci := range current {
		tools := current[ci].Tools
		for ti := range tools {
			old, ok := previous[key{category: current[ci].Category, id: tools[ti].ID}]
			if !ok {
				tools[ti].RankDelta = nil
				tools[ti].ScoreDelta = nil
				continue
			}
			rankDelta := old.Rank - tools[ti].Rank
			scoreDelta := tools[ti].TotalScore - old.TotalScore
			tools[ti].RankDelta = &rankDelta
			tools[ti].ScoreDelta = &scoreDelta
		}
	}
}

// TopMovers returns up to limit tools with a non-zero score delta, sorted by
// absolute score delta descending. Equal movements keep category order.
// A non-positive limit uses DefaultTopMovers.
func TopMovers(categories []model.CategoryScores, limit int) []model.ToolScore {
	if limit <= 0 {
		limit = DefaultTopMovers
	}

	movers := moved(categories, 0)
	sort.SliceStable(movers, func(i, j int) bool {
		return abs(*movers[i].ScoreDelta) > abs(*movers[j].ScoreDelta)
	})

	if len(movers) > limit {
		movers = movers[:limit]
	}
	return movers
}

// Significant returns every tool whose absolute score delta is strictly
// greater than threshold, in category order.
func Significant(categories []model.CategoryScores, threshold int) []model.ToolScore {
	return moved(categories, threshold)
}

// moved collects tools with |scoreDelta| > threshold.
func moved(categories []model.CategoryScores, threshold int) []model.ToolScore {
	out := []model.ToolScore{}
	for _, c := range categories {
		for _, t := range c.Tools {
			if t.ScoreDelta == nil || abs(*t.ScoreDelta) <= threshold {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
