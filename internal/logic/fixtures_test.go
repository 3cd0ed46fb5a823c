package logic

import (
	"fmt"

	"github.com/clanwars/cwl-stats/internal/models"
)

func hit(defender string, stars int) models.Attack {
	return models.Attack{DefenderTag: defender, Stars: stars, DestructionPercentage: float64(stars) * 30}
}

func member(tag string, tier int, attacks ...models.Attack) models.Member {
	return models.Member{Tag: tag, Name: tag, TownhallLevel: tier, Attacks: attacks}
}

// lineup builds members tagged prefix1..prefixN with the given tiers
func lineup(prefix string, tiers ...int) []models.Member {
	out := make([]models.Member, len(tiers))
	for i, t := range tiers {
		out[i] = member(fmt.Sprintf("%s%d", prefix, i+1), t)
		out[i].MapPosition = i + 1
	}
	return out
}

// sideFrom fills in stars and attacks from the members' own attack logs.
func sideFrom(tag string, members []models.Member) models.Side {
	s := models.Side{Tag: tag, Name: tag, Members: members}
	best := map[string]int{}
	for _, m := range members {
		s.Attacks += len(m.Attacks)
		for _, a := range m.Attacks {
			best[a.DefenderTag] = max(best[a.DefenderTag], a.Stars)
		}
	}
	for _, stars := range best {
		s.Stars += stars
	}
	return s
}

func snapshot(state string, clan, opp models.Side) *models.WarSnapshot {
	return &models.WarSnapshot{
		State:            state,
		TeamSize:         len(clan.Members),
		AttacksPerMember: 1,
		Clan:             clan,
		Opponent:         opp,
	}
}

// scenarioC is an in-progress 5v5 war: self 8 stars with one attack left,
// opponent 9 stars with one attack left.
func scenarioC() *models.WarSnapshot {
	self := lineup("#A", 14, 13, 13, 12, 11)
	opp := lineup("#B", 14, 13, 12, 12, 11)

	self[0].Attacks = []models.Attack{hit("#B1", 3)}
	self[1].Attacks = []models.Attack{hit("#B2", 3)}
	self[2].Attacks = []models.Attack{hit("#B3", 2)}
	self[3].Attacks = []models.Attack{hit("#B4", 0)}

	opp[0].Attacks = []models.Attack{hit("#A1", 3)}
	opp[1].Attacks = []models.Attack{hit("#A2", 3)}
	opp[2].Attacks = []models.Attack{hit("#A3", 3)}
	opp[3].Attacks = []models.Attack{hit("#A4", 0)}

	return snapshot("inWar", sideFrom("#A", self), sideFrom("#B", opp))
}

func uniformModel(name string, p [4]float64) StarModel {
	m := StarModel{Name: name}
	for i := range m.Buckets {
		m.Buckets[i] = p
	}
	return m
}
