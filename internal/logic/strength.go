package logic

import (
	"sort"

	"github.com/clanwars/cwl-stats/internal/models"
)

// RankStrength scores each roster by its topN strongest tiers. Front
// positions weigh more: tier[i] counts (topN - i) times. Entries are ordered
// by weighted score, ties keep input order, and ranks run 1..N.
func RankStrength(rosters []models.Roster, topN int, ownID string) ([]models.StrengthEntry, error) {
	if topN <= 0 {
		return nil, invalid("top_n", "must be positive, got %d", topN)
	}
	if len(rosters) == 0 {
		return nil, invalid("rosters", "no rosters to rank")
	}

	entries := make([]models.StrengthEntry, 0, len(rosters))
	for _, r := range rosters {
		if len(r.Members) == 0 {
			return nil, invalid("rosters", "%s has no members", r.ID)
		}
		tiers := topTiers(r.Members, topN)
		e := models.StrengthEntry{
			TeamID:   r.ID,
			Name:     r.Name,
			IsOwn:    ownID != "" && r.ID == ownID,
			TopTiers: tiers,
		}
		sum := 0
		for i, t := range tiers {
			sum += t
			e.WeightedScore += t * (topN - i)
		}
		if len(tiers) > 0 {
			e.AverageTier = float64(sum) / float64(len(tiers))
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeightedScore > entries[j].WeightedScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func topTiers(members []models.Member, topN int) []int {
	tiers := make([]int, len(members))
	for i, m := range members {
		tiers[i] = m.Tier()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))
	if len(tiers) > topN {
		tiers = tiers[:topN]
	}
	return tiers
}

// PositionAdvantage compares own against every other entry position by
// position. When the two lineups differ in length only the shorter length
// is compared.
func PositionAdvantage(entries []models.StrengthEntry, own models.StrengthEntry) []models.PositionAdvantage {
	out := make([]models.PositionAdvantage, 0, len(entries))
	for _, e := range entries {
		if e.IsOwn || e.TeamID == own.TeamID {
			continue
		}
		n := min(len(own.TopTiers), len(e.TopTiers))
		adv := models.PositionAdvantage{OpponentID: e.TeamID, Name: e.Name, Positions: n}
		if n > 0 {
			diff := 0
			for i := 0; i < n; i++ {
				diff += own.TopTiers[i] - e.TopTiers[i]
			}
			adv.AverageDifferential = float64(diff) / float64(n)
		}
		out = append(out, adv)
	}
	return out
}

// OwnEntry finds the entry flagged as the own team.
func OwnEntry(entries []models.StrengthEntry) (models.StrengthEntry, bool) {
	for _, e := range entries {
		if e.IsOwn {
			return e, true
		}
	}
	return models.StrengthEntry{}, false
}
