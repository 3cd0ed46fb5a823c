package logic

import "github.com/clanwars/cwl-stats/internal/models"

// Classify decides a war without simulation when integer bounds allow it.
// It returns false when the outcome is still open.
func Classify(s *models.MatchState) (models.OutcomeEstimate, bool) {
	selfLeft := s.SelfAttacksRemaining()
	oppLeft := s.OpponentAttacksRemaining()

	if s.Phase == models.PhaseEnded || (selfLeft == 0 && oppLeft == 0) {
		return models.FinalResult(compareStars(s.Self.Stars, s.Opponent.Stars)), true
	}

	selfCeiling := starCeiling(s.Self.Stars, selfLeft, s.TeamSize)
	oppCeiling := starCeiling(s.Opponent.Stars, oppLeft, s.TeamSize)

	switch {
	case oppCeiling < s.Self.Stars:
		return models.SecuredResult(models.ResultWin), true
	case selfCeiling < s.Opponent.Stars:
		return models.SecuredResult(models.ResultLoss), true
	}
	return models.OutcomeEstimate{}, false
}

// starCeiling is the most stars a side can finish with: three per remaining
// attack, but never more than the stars left on the opposing roster.
func starCeiling(stars, attacksLeft, teamSize int) int {
	gain := models.MaxStars * attacksLeft
	if room := models.MaxStars*teamSize - stars; room < gain {
		gain = max(room, 0)
	}
	return stars + gain
}

func compareStars(self, opp int) models.Result {
	switch {
	case self > opp:
		return models.ResultWin
	case self < opp:
		return models.ResultLoss
	}
	return models.ResultDraw
}
