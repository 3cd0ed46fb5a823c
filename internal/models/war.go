package models

import (
	"time"
)

// MaxStars is the most stars a single base can give up.
const MaxStars = 3

// EndTimeLayout is the timestamp format used by the upstream war API.
const EndTimeLayout = "20060102T150405.000Z"

// Phase is the lifecycle state of a war
type Phase string

const (
	PhaseNotStarted Phase = "not-started"
	PhaseInProgress Phase = "in-progress"
	PhaseEnded      Phase = "ended"
)

// ParsePhase maps both the engine phases and the upstream war states
// ("preparation", "inWar", "warEnded", "notInWar") to a Phase.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case string(PhaseNotStarted), "preparation", "notInWar":
		return PhaseNotStarted, true
	case string(PhaseInProgress), "inWar":
		return PhaseInProgress, true
	case string(PhaseEnded), "warEnded":
		return PhaseEnded, true
	}
	return "", false
}

// Attack is one logged attack by a roster member
type Attack struct {
	AttackerTag           string  `json:"attackerTag"`
	DefenderTag           string  `json:"defenderTag" validate:"required"`
	Stars                 int     `json:"stars" validate:"min=0,max=3"`
	DestructionPercentage float64 `json:"destructionPercentage"`
	Order                 int     `json:"order"`
}

// Member is a roster slot: the same player is both an attacker and a base
type Member struct {
	Tag           string   `json:"tag" validate:"required"`
	Name          string   `json:"name"`
	MapPosition   int      `json:"mapPosition"`
	TownhallLevel int      `json:"townhallLevel" validate:"min=0"`
	Attacks       []Attack `json:"attacks,omitempty" validate:"dive"`
}

// Tier returns the member's strength tier.
func (m Member) Tier() int {
	return m.TownhallLevel
}

// Side is one clan's half of a war snapshot
type Side struct {
	Tag                   string   `json:"tag" validate:"required"`
	Name                  string   `json:"name"`
	Stars                 int      `json:"stars" validate:"min=0"`
	Attacks               int      `json:"attacks" validate:"min=0"`
	DestructionPercentage float64  `json:"destructionPercentage"`
	Members               []Member `json:"members" validate:"required,min=1,dive"`
}

// WarSnapshot is a single war as delivered by the upstream war API
type WarSnapshot struct {
	State            string `json:"state" validate:"required"`
	TeamSize         int    `json:"teamSize" validate:"required,min=1"`
	AttacksPerMember int    `json:"attacksPerMember" validate:"min=0"`
	EndTime          string `json:"endTime,omitempty"`
	Clan             Side   `json:"clan"`
	Opponent         Side   `json:"opponent"`
}

// ParsedEndTime returns the snapshot end time, zero when absent or malformed
func (w *WarSnapshot) ParsedEndTime() time.Time {
	if w.EndTime == "" {
		return time.Time{}
	}
	t, err := time.Parse(EndTimeLayout, w.EndTime)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Involves reports whether the clan tag is one of the two sides.
func (w *WarSnapshot) Involves(tag string) bool {
	return w.Clan.Tag == tag || w.Opponent.Tag == tag
}

// MatchState is the engine's read-only view of one war, oriented so that
// Self is the clan the query is made for.
type MatchState struct {
	Self             Side
	Opponent         Side
	TeamSize         int
	AttacksPerMember int
	Phase            Phase
	EndTime          time.Time
}

// AttacksAllowed is the per-side attack budget for the whole war.
func (m *MatchState) AttacksAllowed() int {
	return m.TeamSize * m.AttacksPerMember
}

// SelfAttacksRemaining is never negative.
func (m *MatchState) SelfAttacksRemaining() int {
	return max(m.AttacksAllowed()-m.Self.Attacks, 0)
}

// OpponentAttacksRemaining is never negative.
func (m *MatchState) OpponentAttacksRemaining() int {
	return max(m.AttacksAllowed()-m.Opponent.Attacks, 0)
}

// Attacker is a roster member that still has attacks to spend
type Attacker struct {
	ID        string `json:"id"`
	Tier      int    `json:"tier"`
	Remaining int    `json:"remaining"`
}

// Base is a defended roster position
type Base struct {
	ID      string `json:"id"`
	Tier    int    `json:"tier"`
	Secured int    `json:"secured"`
}

// Remaining is the number of stars still available on the base.
func (b Base) Remaining() int {
	return MaxStars - b.Secured
}
