package models

import "time"

// AttackRankingRow is one member's best attack in a war
type AttackRankingRow struct {
	Tag         string  `json:"tag"`
	Name        string  `json:"name"`
	MapPosition int     `json:"map_position"`
	Attacked    bool    `json:"attacked"`
	Stars       int     `json:"stars"`
	Destruction float64 `json:"destruction"`
}

// SideSummary is the scoreboard line for one clan
type SideSummary struct {
	Tag         string  `json:"tag"`
	Name        string  `json:"name"`
	Stars       int     `json:"stars"`
	Destruction float64 `json:"destruction"`
	Attacks     int     `json:"attacks"`
	MaxAttacks  int     `json:"max_attacks"`
	Remaining   int     `json:"remaining"`
}

// WarSummary is the per-war scoreboard plus attack rankings
type WarSummary struct {
	Phase           Phase              `json:"phase"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
	Self            SideSummary        `json:"self"`
	Opponent        SideSummary        `json:"opponent"`
	SelfRanking     []AttackRankingRow `json:"self_ranking"`
	OpponentRanking []AttackRankingRow `json:"opponent_ranking"`
}

// RoundWar is one war of a league round
type RoundWar struct {
	Round int         `json:"round" validate:"min=1"`
	War   WarSnapshot `json:"war"`
}

// RoundsRequest is the body of POST /league/rounds/live
type RoundsRequest struct {
	Rounds []RoundWar `json:"rounds" validate:"required,dive"`
}

// RoundSummary is a war selected for display together with its round index
type RoundSummary struct {
	Round   int         `json:"round"`
	Summary *WarSummary `json:"summary"`
}

// RoundSelection is the response of the live/all round filter
type RoundSelection struct {
	Mode   string         `json:"mode"` // "live" or "all"
	Rounds []RoundSummary `json:"rounds"`
}
