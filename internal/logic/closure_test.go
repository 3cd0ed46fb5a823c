package logic

import (
	"testing"

	"github.com/clanwars/cwl-stats/internal/models"
)

func matchState(phase models.Phase, teamSize, perMember, selfStars, selfUsed, oppStars, oppUsed int) *models.MatchState {
	tiers := make([]int, teamSize)
	for i := range tiers {
		tiers[i] = 12
	}
	return &models.MatchState{
		Self:             models.Side{Tag: "#A", Stars: selfStars, Attacks: selfUsed, Members: lineup("#A", tiers...)},
		Opponent:         models.Side{Tag: "#B", Stars: oppStars, Attacks: oppUsed, Members: lineup("#B", tiers...)},
		TeamSize:         teamSize,
		AttacksPerMember: perMember,
		Phase:            phase,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		state   *models.MatchState
		want    models.OutcomeEstimate
		decided bool
	}{
		{
			name:    "ended war is final",
			state:   matchState(models.PhaseEnded, 5, 1, 3, 5, 5, 5),
			want:    models.FinalResult(models.ResultLoss),
			decided: true,
		},
		{
			name:    "ended war with unused attacks is still final",
			state:   matchState(models.PhaseEnded, 5, 1, 7, 3, 7, 4),
			want:    models.FinalResult(models.ResultDraw),
			decided: true,
		},
		{
			name:    "no attacks left on either side",
			state:   matchState(models.PhaseInProgress, 3, 1, 8, 3, 6, 3),
			want:    models.FinalResult(models.ResultWin),
			decided: true,
		},
		{
			name:    "opponent cannot catch up",
			state:   matchState(models.PhaseInProgress, 3, 1, 9, 3, 2, 2),
			want:    models.SecuredResult(models.ResultWin),
			decided: true,
		},
		{
			name:    "opponent out of attacks and behind",
			state:   matchState(models.PhaseInProgress, 5, 1, 10, 3, 5, 5),
			want:    models.SecuredResult(models.ResultWin),
			decided: true,
		},
		{
			name:    "self cannot catch up",
			state:   matchState(models.PhaseInProgress, 5, 1, 4, 4, 14, 5),
			want:    models.SecuredResult(models.ResultLoss),
			decided: true,
		},
		{
			name:    "roster room caps the ceiling",
			state:   matchState(models.PhaseInProgress, 3, 2, 8, 3, 7, 2),
			decided: false,
		},
		{
			name:    "one attack each, one star apart",
			state:   matchState(models.PhaseInProgress, 5, 1, 8, 4, 9, 4),
			decided: false,
		},
		{
			name:    "not started",
			state:   matchState(models.PhaseNotStarted, 5, 1, 0, 0, 0, 0),
			decided: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, decided := Classify(tt.state)
			if decided != tt.decided {
				t.Fatalf("Classify() decided = %v, want %v (got %+v)", decided, tt.decided, got)
			}
			if decided && got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyScenarioC(t *testing.T) {
	s, err := BuildMatchState(scenarioC(), "#A")
	if err != nil {
		t.Fatal(err)
	}
	if got, decided := Classify(s); decided {
		t.Errorf("scenario C should be open, got %+v", got)
	}
}

// maxGain enumerates every star assignment for attacks remaining attacks and
// returns the largest total a side can add without exceeding room.
func maxGain(attacks, room int) int {
	if attacks == 0 {
		return 0
	}
	best := 0
	for s := 0; s <= models.MaxStars; s++ {
		best = max(best, min(s+maxGain(attacks-1, room), room))
	}
	return best
}

func TestClassifySecuredIsSound(t *testing.T) {
	for teamSize := 1; teamSize <= 3; teamSize++ {
		for perMember := 1; perMember <= 2; perMember++ {
			allowed := teamSize * perMember
			limit := models.MaxStars * teamSize
			for selfStars := 0; selfStars <= limit; selfStars++ {
				for oppStars := 0; oppStars <= limit; oppStars++ {
					for selfUsed := 0; selfUsed <= allowed; selfUsed++ {
						for oppUsed := 0; oppUsed <= allowed; oppUsed++ {
							s := matchState(models.PhaseInProgress, teamSize, perMember, selfStars, selfUsed, oppStars, oppUsed)
							got, decided := Classify(s)
							if !decided || got.Kind != models.OutcomeSecured {
								continue
							}
							selfBest := selfStars + maxGain(allowed-selfUsed, limit-selfStars)
							oppBest := oppStars + maxGain(allowed-oppUsed, limit-oppStars)
							switch got.Result {
							case models.ResultWin:
								if oppBest >= selfStars {
									t.Errorf("ts=%d apm=%d %d/%d vs %d/%d: secured win but opponent can reach %d",
										teamSize, perMember, selfStars, selfUsed, oppStars, oppUsed, oppBest)
								}
							case models.ResultLoss:
								if selfBest >= oppStars {
									t.Errorf("ts=%d apm=%d %d/%d vs %d/%d: secured loss but self can reach %d",
										teamSize, perMember, selfStars, selfUsed, oppStars, oppUsed, selfBest)
								}
							default:
								t.Errorf("secured result %q", got.Result)
							}
						}
					}
				}
			}
		}
	}
}
