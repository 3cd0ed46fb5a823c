package models

import (
	"strings"
	"time"
)

// OutcomeKind tags which variant an OutcomeEstimate holds
type OutcomeKind string

const (
	OutcomeFinal   OutcomeKind = "final"
	OutcomeSecured OutcomeKind = "secured"
	OutcomeOpen    OutcomeKind = "open"
)

// Result is a war result from the queried clan's point of view
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Probabilities holds open-war percentages (0-100, one decimal)
type Probabilities struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

// Sum of the three percentages.
func (p Probabilities) Sum() float64 {
	return p.Win + p.Draw + p.Loss
}

// OutcomeEstimate is either a final result, a secured (mathematically
// settled) result, or open probabilities.
type OutcomeEstimate struct {
	Kind          OutcomeKind    `json:"kind"`
	Result        Result         `json:"result,omitempty"`
	Probabilities *Probabilities `json:"probabilities,omitempty"`
}

func FinalResult(r Result) OutcomeEstimate {
	return OutcomeEstimate{Kind: OutcomeFinal, Result: r}
}

// SecuredResult only takes win or loss; a draw is never secured before the end.
func SecuredResult(r Result) OutcomeEstimate {
	return OutcomeEstimate{Kind: OutcomeSecured, Result: r}
}

func OpenResult(win, draw, loss float64) OutcomeEstimate {
	return OutcomeEstimate{
		Kind:          OutcomeOpen,
		Probabilities: &Probabilities{Win: win, Draw: draw, Loss: loss},
	}
}

// ParseVerdict reads a verdict written as "open", "secured:win",
// "final:draw" and so on. Open verdicts carry no probabilities.
func ParseVerdict(s string) (OutcomeEstimate, bool) {
	kind, result, _ := strings.Cut(s, ":")
	switch OutcomeKind(kind) {
	case OutcomeOpen:
		return OutcomeEstimate{Kind: OutcomeOpen}, result == ""
	case OutcomeSecured:
		if r := Result(result); r == ResultWin || r == ResultLoss {
			return SecuredResult(r), true
		}
	case OutcomeFinal:
		if r := Result(result); r == ResultWin || r == ResultLoss || r == ResultDraw {
			return FinalResult(r), true
		}
	}
	return OutcomeEstimate{}, false
}

// IsDecided reports whether the estimate is final or secured.
func (o OutcomeEstimate) IsDecided() bool {
	return o.Kind == OutcomeFinal || o.Kind == OutcomeSecured
}

// WarAnalysis is the response for one outcome query
type WarAnalysis struct {
	AnalysisID               string          `json:"analysis_id"`
	SnapshotKey              string          `json:"snapshot_key"`
	SelfTag                  string          `json:"self_tag"`
	OpponentTag              string          `json:"opponent_tag"`
	Phase                    Phase           `json:"phase"`
	Outcome                  OutcomeEstimate `json:"outcome"`
	SelfStars                int             `json:"self_stars"`
	OpponentStars            int             `json:"opponent_stars"`
	SelfAttacksRemaining     int             `json:"self_attacks_remaining"`
	OpponentAttacksRemaining int             `json:"opponent_attacks_remaining"`
	Trials                   int             `json:"trials,omitempty"`
	Model                    string          `json:"model,omitempty"`
	Warnings                 []string        `json:"warnings,omitempty"`
	GeneratedAt              time.Time       `json:"generated_at"`
}
