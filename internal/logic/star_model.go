package logic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/clanwars/cwl-stats/internal/models"
)

const (
	// minDelta and maxDelta bound the clamped tier differential
	minDelta = -3
	maxDelta = 2

	bucketCount = maxDelta - minDelta + 1
)

// StarModel maps a tier differential (attacker - defender) to the
// probability of a 0, 1, 2 or 3 star attack.
type StarModel struct {
	Name string
	// Buckets[0] is delta <= -3, Buckets[5] is delta >= +2
	Buckets [bucketCount][models.MaxStars + 1]float64
}

// LeaguePreset is tuned on league (one attack per member) wars
var LeaguePreset = StarModel{
	Name: "league",
	Buckets: [bucketCount][models.MaxStars + 1]float64{
		{0.85, 0.12, 0.03, 0.00},
		{0.45, 0.35, 0.17, 0.03},
		{0.15, 0.35, 0.38, 0.12},
		{0.04, 0.14, 0.42, 0.40},
		{0.01, 0.03, 0.26, 0.70},
		{0.00, 0.01, 0.05, 0.94},
	},
}

// StandardPreset is tuned on regular wars
var StandardPreset = StarModel{
	Name: "standard",
	Buckets: [bucketCount][models.MaxStars + 1]float64{
		{0.90, 0.08, 0.02, 0.00},
		{0.55, 0.30, 0.13, 0.02},
		{0.20, 0.35, 0.35, 0.10},
		{0.05, 0.15, 0.45, 0.35},
		{0.01, 0.04, 0.30, 0.65},
		{0.00, 0.01, 0.09, 0.90},
	},
}

var presets = map[string]StarModel{
	LeaguePreset.Name:   LeaguePreset,
	StandardPreset.Name: StandardPreset,
}

// Probabilities is total over every integer delta.
func (m StarModel) Probabilities(delta int) [models.MaxStars + 1]float64 {
	delta = min(max(delta, minDelta), maxDelta)
	return m.Buckets[delta-minDelta]
}

// Sample draws a star count for delta using u in [0,1): the first bucket
// whose running cumulative probability is strictly greater than u.
func (m StarModel) Sample(delta int, u float64) int {
	p := m.Probabilities(delta)
	var cum float64
	last := 0
	for s, ps := range p {
		if ps <= 0 {
			continue
		}
		last = s
		cum += ps
		if u < cum {
			return s
		}
	}
	// u landed in the rounding slack above the cumulative total
	return last
}

// NewStarModel builds and validates a model from six rows of four
// probabilities, ordered from delta <= -3 up to delta >= +2.
func NewStarModel(name string, rows [][]float64) (StarModel, error) {
	m := StarModel{Name: name}
	if len(rows) != bucketCount {
		return m, fmt.Errorf("star model %q: want %d buckets, got %d", name, bucketCount, len(rows))
	}
	for i, row := range rows {
		if len(row) != models.MaxStars+1 {
			return m, fmt.Errorf("star model %q bucket %d: want %d values, got %d", name, i, models.MaxStars+1, len(row))
		}
		var sum float64
		for s, p := range row {
			if p < 0 || p > 1 || math.IsNaN(p) {
				return m, fmt.Errorf("star model %q bucket %d: probability %v out of range", name, i, p)
			}
			m.Buckets[i][s] = p
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			return m, fmt.Errorf("star model %q bucket %d: probabilities sum to %v", name, i, sum)
		}
	}
	return m, nil
}

// ResolveStarModel returns the named preset. Overrides (usually loaded from
// the presets file) take precedence over the built-in presets and may add
// new names.
func ResolveStarModel(name string, overrides map[string][][]float64) (StarModel, error) {
	if name == "" {
		name = LeaguePreset.Name
	}
	if rows, ok := overrides[name]; ok {
		return NewStarModel(name, rows)
	}
	if m, ok := presets[name]; ok {
		return m, nil
	}
	known := make([]string, 0, len(presets)+len(overrides))
	for k := range presets {
		known = append(known, k)
	}
	for k := range overrides {
		known = append(known, k)
	}
	sort.Strings(known)
	return StarModel{}, fmt.Errorf("unknown star preset %q (known: %s)", name, strings.Join(known, ", "))
}
