package models

// Roster is one team's lineup for strength ranking
type Roster struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name"`
	Members []Member `json:"members" validate:"required,min=1,dive"`
}

// StrengthEntry scores one roster by its top-N tiers
type StrengthEntry struct {
	TeamID        string  `json:"team_id"`
	Name          string  `json:"name"`
	AverageTier   float64 `json:"average_tier"`
	WeightedScore int     `json:"weighted_score"`
	Rank          int     `json:"rank"`
	IsOwn         bool    `json:"is_own"`
	TopTiers      []int   `json:"top_tiers"`
}

// PositionAdvantage compares the own roster to one opponent slot by slot.
// Positive means the own team is stronger.
type PositionAdvantage struct {
	OpponentID          string  `json:"opponent_id"`
	Name                string  `json:"name"`
	AverageDifferential float64 `json:"average_differential"`
	Positions           int     `json:"positions"`
}

// StrengthRequest is the body of POST /league/strength
type StrengthRequest struct {
	OwnID   string   `json:"own_id"`
	TopN    int      `json:"top_n" validate:"min=0"`
	Rosters []Roster `json:"rosters" validate:"required,min=1,dive"`
}

// StrengthResponse pairs the ranking with the own team's position advantages
type StrengthResponse struct {
	TopN       int                 `json:"top_n"`
	Entries    []StrengthEntry     `json:"entries"`
	Advantages []PositionAdvantage `json:"advantages,omitempty"`
}
