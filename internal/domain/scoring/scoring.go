// Package scoring turns catalog tool records into dimension scores, weighted
// totals, explanations and per-category rankings.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/okian/toolboard/internal/domain/model"
)

// Score bounds for every dimension and for the weighted total.
const (
	minScore = 0
	maxScore = 100
)

// Rule constants for the dimension heuristics.
const (
	valueBase          = 50
	valueFreeTier      = 20
	valuePromo         = 10
	valuePerProCon     = 3
	qualityBase        = 60
	qualityBest        = 20
	qualityAIBadge     = 10
	qualityEnterprise  = 10
	qualityPerPro      = 5
	qualityPerCon      = 3
	adoptionBase       = 40
	adoptionDatabase   = 20
	adoptionContacts   = 15
	adoptionPopular    = 15
	adoptionEnterprise = 10
	adoptionLeader     = 15
	uxBase             = 50
	uxQuickEasy        = 20
	uxSetupBadge       = 15
	uxConPenalty       = 10
	uxConAllowance     = 5
	uxPerCon           = 5
)

// firstPrice matches the first dollar amount in a pricing description,
// e.g. "$15/month" or "from $1,200/yr".
var firstPrice = regexp.MustCompile(`\$\s?(\d[\d,]*(?:\.\d+)?)`)

// Noise is a source of values in [0,1). *rand.Rand satisfies it.
type Noise interface {
	Float64() float64
}

// Option applies a configuration option to the DimensionScorer.
type Option func(*DimensionScorer)

// WithBoosts sets the per-tool manual boost table.
func WithBoosts(boosts BoostTable) Option {
	return func(s *DimensionScorer) {
		if boosts != nil {
			s.boosts = boosts
		}
	}
}

// WithAdoptionJitter adds noise in [0,maxJitter) to the adoption dimension.
// A zero maxJitter or nil source leaves the scorer deterministic.
func WithAdoptionJitter(maxJitter float64, src Noise) Option {
	return func(s *DimensionScorer) {
		if maxJitter > 0 && src != nil {
			s.jitterMax = maxJitter
			s.noise = src
		}
	}
}

// DimensionScorer maps a tool record to its four dimension scores.
type DimensionScorer struct {
	boosts BoostTable

	// Optional adoption noise; disabled unless configured.
	// mu guards noise, which is usually a *rand.Rand.
	mu        sync.Mutex
	jitterMax float64
	noise     Noise
}

// NewDimensionScorer creates a scorer with no boosts and no jitter.
func NewDimensionScorer(opts ...Option) *DimensionScorer {
	s := &DimensionScorer{
		boosts: BoostTable{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the dimensions for one tool. Every dimension is clamped
// to [0,100].
func (s *DimensionScorer) Score(t model.ToolRecord) model.ScoreDimensions {
	d := model.ScoreDimensions{
		Value:    s.value(t),
		Quality:  quality(t),
		Adoption: s.adoption(t),
		UX:       ux(t),
	}

	if boost, ok := s.boosts[t.ID]; ok {
		d = boost.apply(d)
	}

	d.Value = clamp(d.Value)
	d.Quality = clamp(d.Quality)
	d.Adoption = clamp(d.Adoption)
	d.UX = clamp(d.UX)
	return d
}

func (s *DimensionScorer) value(t model.ToolRecord) int {
	v := valueBase
	if t.HasFreeTier() {
		v += valueFreeTier
	}
	if t.Promo {
		v += valuePromo
	}
	if adj, ok := priceAdjustment(t.Pricing); ok {
		v += adj
	}
	return v + (len(t.Pros)-len(t.Cons))*valuePerProCon
}

func quality(t model.ToolRecord) int {
	q := qualityBase
	if hasBadge(t.Badges, "Best Quality") {
		q += qualityBest
	}
	if hasBadge(t.Badges, "AI-Powered") {
		q += qualityAIBadge
	}
	if hasBadge(t.Badges, "GPT-Powered") {
		q += qualityAIBadge
	}
	if t.Enterprise {
		q += qualityEnterprise
	}
	return q + len(t.Pros)*qualityPerPro - len(t.Cons)*qualityPerCon
}

func (s *DimensionScorer) adoption(t model.ToolRecord) int {
	a := adoptionBase
	if hasBadge(t.Badges, "Largest Database") {
		a += adoptionDatabase
	}
	if hasBadge(t.Badges, "275M+ Contacts") {
		a += adoptionContacts
	}
	if hasBadge(t.Badges, "Most Popular") {
		a += adoptionPopular
	}
	if t.Enterprise {
		a += adoptionEnterprise
	}
	note := strings.ToLower(t.EditorNote)
	if strings.Contains(note, "leader") || strings.Contains(note, "standard") {
		a += adoptionLeader
	}
	if s.noise != nil {
		s.mu.Lock()
		a += int(s.noise.Float64() * s.jitterMax)
		s.mu.Unlock()
	}
	return a
}

func ux(t model.ToolRecord) int {
	u := uxBase
	if anyContains(t.Badges, "quick") || anyContains(t.Badges, "easy") {
		u += uxQuickEasy
	}
	if hasBadge(t.Badges, "No-Code") {
		u += uxSetupBadge
	}
	if hasBadge(t.Badges, "5-minute setup") {
		u += uxSetupBadge
	}
	if anyContains(t.Cons, "learning curve") {
		u -= uxConPenalty
	}
	if anyContains(t.Cons, "complex") {
		u -= uxConPenalty
	}
	return u + (uxConAllowance-len(t.Cons))*uxPerCon
}

// priceAdjustment returns the price-tier bonus for the first dollar amount
// in pricing. ok is false when no amount is present.
func priceAdjustment(pricing string) (adj int, ok bool) {
	m := firstPrice.FindStringSubmatch(pricing)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch {
	case price < 20:
		return 15, true
	case price < 50:
		return 10, true
	case price < 100:
		return 5, true
	default:
		return -5, true
	}
}

func hasBadge(badges []string, name string) bool {
	for _, b := range badges {
		if strings.EqualFold(strings.TrimSpace(b), name) {
			return true
		}
	}
	return false
}

func anyContains(items []string, sub string) bool {
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), sub) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
