// Package verify checks a running leaderboard API for ranking invariants.
package verify

import (
	"fmt"

	"github.com/okian/toolboard/internal/domain/model"
)

// CheckLeaderboard returns every invariant violation found in categories:
// dense 1..N ranks, non-increasing totals, scores within [0,100], matching
// category labels, unique ids and paired deltas.
func CheckLeaderboard(categories []model.CategoryScores) []string {
	var problems []string
	seenCategory := make(map[string]bool, len(categories))

	for _, c := range categories {
		if seenCategory[c.Category] {
			problems = append(problems, fmt.Sprintf("category %q listed twice", c.Category))
		}
		seenCategory[c.Category] = true

		ids := make(map[string]bool, len(c.Tools))
		for i, t := range c.Tools {
			where := fmt.Sprintf("%s/%s", c.Category, t.ID)

			if t.Rank != i+1 {
				problems = append(problems, fmt.Sprintf("%s: rank %d at position %d", where, t.Rank, i+1))
			}
			if i > 0 && t.TotalScore > c.Tools[i-1].TotalScore {
				problems = append(problems, fmt.Sprintf("%s: total %d above previous %d", where, t.TotalScore, c.Tools[i-1].TotalScore))
			}
			if t.Category != c.Category {
				problems = append(problems, fmt.Sprintf("%s: labelled %q", where, t.Category))
			}
			if ids[t.ID] {
				problems = append(problems, fmt.Sprintf("%s: duplicate id", where))
			}
			ids[t.ID] = true

			for name, v := range map[string]int{
				"totalScore": t.TotalScore,
				"value":      t.Dimensions.Value,
				"quality":    t.Dimensions.Quality,
				"adoption":   t.Dimensions.Adoption,
				"ux":         t.Dimensions.UX,
			} {
				if v < 0 || v > 100 {
					problems = append(problems, fmt.Sprintf("%s: %s %d out of range", where, name, v))
				}
			}

			if (t.RankDelta == nil) != (t.ScoreDelta == nil) {
				problems = append(problems, fmt.Sprintf("%s: only one of rankDelta/scoreDelta set", where))
			}
		}
	}
	return problems
}

// CheckMovers returns violations in a Top-Movers list: every entry must carry
// a non-zero score delta and the list must be ordered by absolute delta.
func CheckMovers(movers []model.ToolScore, limit int) []string {
	var problems []string
	if limit > 0 && len(movers) > limit {
		problems = append(problems, fmt.Sprintf("movers: %d entries exceed limit %d", len(movers), limit))
	}
	for i, t := range movers {
		if t.ScoreDelta == nil || *t.ScoreDelta == 0 {
			problems = append(problems, fmt.Sprintf("movers: %s has no score movement", t.ID))
			continue
		}
		if i > 0 && movers[i-1].ScoreDelta != nil && abs(*t.ScoreDelta) > abs(*movers[i-1].ScoreDelta) {
			problems = append(problems, fmt.Sprintf("movers: %s moved more than the entry before it", t.ID))
		}
	}
	return problems
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
