package logic

import (
	"math/rand"

	"github.com/clanwars/cwl-stats/internal/models"
)

// ExpectedStars is the expected number of additional stars an attacker of
// the given tier takes from base, given what is already secured on it.
func ExpectedStars(m StarModel, tier int, base models.Base) float64 {
	remaining := base.Remaining()
	if remaining <= 0 {
		return 0
	}
	p := m.Probabilities(tier - base.Tier)
	var ev float64
	for s := 1; s <= models.MaxStars; s++ {
		ev += float64(min(s, remaining)) * p[s]
	}
	return ev
}

// ChooseTarget returns the index of the base with the highest expected
// gain, the first one on ties. It returns -1 when no base has a positive
// expected gain, in which case the attacker does not attack.
func ChooseTarget(m StarModel, tier int, bases []models.Base) int {
	best := -1
	var bestEV float64
	for i, b := range bases {
		if b.Remaining() <= 0 {
			continue
		}
		if ev := ExpectedStars(m, tier, b); ev > bestEV {
			best, bestEV = i, ev
		}
	}
	return best
}

// ApplyAttack picks a target, draws a concrete star outcome and records it
// on bases, which must be a working copy owned by the caller. It returns
// the chosen index (-1 when skipped) and the stars actually gained.
func ApplyAttack(m StarModel, rng *rand.Rand, tier int, bases []models.Base) (int, int) {
	idx := ChooseTarget(m, tier, bases)
	if idx < 0 {
		return -1, 0
	}
	stars := m.Sample(tier-bases[idx].Tier, rng.Float64())
	gained := min(stars, bases[idx].Remaining())
	bases[idx].Secured += gained
	return idx, gained
}
