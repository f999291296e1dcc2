// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// ToolRecord is one entry of the tool catalog. ID is the join key between
// weekly snapshots and must stay stable for the lifetime of a tool.
type ToolRecord struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Category   string   `json:"category" yaml:"category"`
	Pricing    string   `json:"pricing" yaml:"pricing"` // free-form, e.g. "Free plan, then $15/month"
	Badges     []string `json:"badges,omitempty" yaml:"badges"`
	Pros       []string `json:"pros,omitempty" yaml:"pros"`
	Cons       []string `json:"cons,omitempty" yaml:"cons"`
	Enterprise bool     `json:"enterprise,omitempty" yaml:"enterprise"`
	Promo      bool     `json:"promo,omitempty" yaml:"promo"`
	EditorNote string   `json:"editorNote,omitempty" yaml:"editorNote"`
}

// HasFreeTier reports whether the pricing text advertises a free tier.
func (t ToolRecord) HasFreeTier() bool {
	return strings.Contains(strings.ToLower(t.Pricing), "free")
}

// ScoreDimensions holds the four per-tool dimension scores, each in [0,100].
type ScoreDimensions struct {
	Value    int `json:"value"`
	Quality  int `json:"quality"`
	Adoption int `json:"adoption"`
	UX       int `json:"ux"`
}

// ToolScore is a scored and ranked tool for one run.
// RankDelta and ScoreDelta are nil for tools without a prior-snapshot match;
// a pointer to zero means "matched, unchanged".
type ToolScore struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Dimensions  ScoreDimensions `json:"dimensions"`
	TotalScore  int             `json:"totalScore"`
	Rank        int             `json:"rank"`
	RankDelta   *int            `json:"rankDelta,omitempty"`
	ScoreDelta  *int            `json:"scoreDelta,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
}

// HasDelta reports whether the tool was matched against a prior snapshot.
func (s ToolScore) HasDelta() bool {
	return s.ScoreDelta != nil
}

// CategoryScores is one category's leaderboard, ordered by rank.
type CategoryScores struct {
	Category      string      `json:"category"`
	Tools         []ToolScore `json:"tools"`
	EditorCallout string      `json:"editorCallout,omitempty"`
}

// Snapshot is a persisted scoring run for one week. It is never mutated
// after it has been written.
type Snapshot struct {
	Week       string           `json:"week"`
	Timestamp  time.Time        `json:"timestamp"`
	Categories []CategoryScores `json:"categories"`
}

// ToolCount returns the number of tools across all categories.
func (s Snapshot) ToolCount() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Tools)
	}
	return n
}
