package logic

import (
	"context"

	"github.com/clanwars/cwl-stats/internal/models"
)

// WarService answers per-war questions from an already fetched snapshot
type WarService interface {
	Analyze(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
	Summarize(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarSummary, error)
	SelectRounds(ctx context.Context, rounds []models.RoundWar, clanTag string, all bool) (*models.RoundSelection, error)
}

// StrengthService ranks league rosters
type StrengthService interface {
	Rank(ctx context.Context, req *models.StrengthRequest) (*models.StrengthResponse, error)
}
