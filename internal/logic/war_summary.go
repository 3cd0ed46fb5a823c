package logic

import (
	"sort"

	"github.com/clanwars/cwl-stats/internal/models"
)

// Summarize builds the scoreboard and attack rankings for one war.
func Summarize(snap *models.WarSnapshot, selfTag string) (*models.WarSummary, error) {
	state, err := BuildMatchState(snap, selfTag)
	if err != nil {
		return nil, err
	}

	sum := &models.WarSummary{
		Phase:           state.Phase,
		Self:            sideSummary(state.Self, state),
		Opponent:        sideSummary(state.Opponent, state),
		SelfRanking:     AttackRanking(state.Self),
		OpponentRanking: AttackRanking(state.Opponent),
	}
	if !state.EndTime.IsZero() {
		end := state.EndTime
		sum.EndTime = &end
	}
	return sum, nil
}

func sideSummary(side models.Side, state *models.MatchState) models.SideSummary {
	return models.SideSummary{
		Tag:         side.Tag,
		Name:        side.Name,
		Stars:       side.Stars,
		Destruction: side.DestructionPercentage,
		Attacks:     side.Attacks,
		MaxAttacks:  state.AttacksAllowed(),
		Remaining:   max(state.AttacksAllowed()-side.Attacks, 0),
	}
}

// AttackRanking lists every member with their best attack, most stars first,
// then highest destruction. Members who have not attacked sort last.
func AttackRanking(side models.Side) []models.AttackRankingRow {
	rows := make([]models.AttackRankingRow, 0, len(side.Members))
	for _, m := range side.Members {
		row := models.AttackRankingRow{Tag: m.Tag, Name: m.Name, MapPosition: m.MapPosition}
		for _, a := range m.Attacks {
			if !row.Attacked || a.Stars > row.Stars ||
				(a.Stars == row.Stars && a.DestructionPercentage > row.Destruction) {
				row.Stars = a.Stars
				row.Destruction = a.DestructionPercentage
			}
			row.Attacked = true
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Stars != rows[j].Stars {
			return rows[i].Stars > rows[j].Stars
		}
		if rows[i].Destruction != rows[j].Destruction {
			return rows[i].Destruction > rows[j].Destruction
		}
		if rows[i].Attacked != rows[j].Attacked {
			return rows[i].Attacked
		}
		return rows[i].MapPosition < rows[j].MapPosition
	})
	return rows
}

// SelectRounds filters the wars of a league for display. In live mode it
// returns the wars in progress, or failing that the most recently ended war.
// With all set it returns every war of the clan in round order.
func SelectRounds(rounds []models.RoundWar, clanTag string, all bool) (*models.RoundSelection, error) {
	mine := make([]models.RoundWar, 0, len(rounds))
	for _, r := range rounds {
		if clanTag == "" || r.War.Involves(clanTag) {
			mine = append(mine, r)
		}
	}

	sel := &models.RoundSelection{Mode: "live", Rounds: []models.RoundSummary{}}
	var picked []models.RoundWar

	if all {
		sel.Mode = "all"
		picked = mine
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Round < picked[j].Round })
	} else {
		var ended []models.RoundWar
		for _, r := range mine {
			switch phase, _ := models.ParsePhase(r.War.State); phase {
			case models.PhaseInProgress:
				picked = append(picked, r)
			case models.PhaseEnded:
				ended = append(ended, r)
			}
		}
		if len(picked) == 0 && len(ended) > 0 {
			sort.SliceStable(ended, func(i, j int) bool {
				return ended[i].War.ParsedEndTime().After(ended[j].War.ParsedEndTime())
			})
			picked = ended[:1]
		}
	}

	for _, r := range picked {
		summary, err := Summarize(&r.War, clanTag)
		if err != nil {
			return nil, err
		}
		sel.Rounds = append(sel.Rounds, models.RoundSummary{Round: r.Round, Summary: summary})
	}
	return sel, nil
}
