package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/models"
)

type warService struct {
	estimator *Estimator
	logger    *zap.SugaredLogger
}

func NewWarService(estimator *Estimator, logger *zap.Logger) WarService {
	return &warService{estimator: estimator, logger: logger.Sugar()}
}

// Analyze runs the closure checks first and only simulates wars that are
// still open.
func (s *warService) Analyze(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error) {
	state, err := BuildMatchState(snap, selfTag)
	if err != nil {
		return nil, err
	}

	board, warnings, err := NewBoard(state)
	if err != nil {
		return nil, err
	}

	key := SnapshotKey(state)
	for _, w := range warnings {
		s.logger.Warnw("Snapshot inconsistency", "snapshot", key, "clan", state.Self.Tag, "warning", w)
	}

	analysis := &models.WarAnalysis{
		AnalysisID:               uuid.New().String(),
		SnapshotKey:              key,
		SelfTag:                  state.Self.Tag,
		OpponentTag:              state.Opponent.Tag,
		Phase:                    state.Phase,
		SelfStars:                state.Self.Stars,
		OpponentStars:            state.Opponent.Stars,
		SelfAttacksRemaining:     board.SelfAttacksRemaining,
		OpponentAttacksRemaining: board.OpponentAttacksRemaining,
		Warnings:                 warnings,
		GeneratedAt:              time.Now().UTC(),
	}

	if outcome, ok := Classify(state); ok {
		analysis.Outcome = outcome
		return analysis, nil
	}

	start := time.Now()
	outcome, err := s.estimator.EstimateBoard(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("estimate %s: %w", key, err)
	}
	analysis.Outcome = outcome
	analysis.Trials = s.estimator.TrialCount()
	analysis.Model = s.estimator.Model.Name

	s.logger.Debugw("War simulated",
		"snapshot", key,
		"trials", analysis.Trials,
		"duration", time.Since(start),
	)
	return analysis, nil
}

func (s *warService) Summarize(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarSummary, error) {
	return Summarize(snap, selfTag)
}

func (s *warService) SelectRounds(ctx context.Context, rounds []models.RoundWar, clanTag string, all bool) (*models.RoundSelection, error) {
	return SelectRounds(rounds, clanTag, all)
}

type strengthService struct {
	defaultTopN int
}

func NewStrengthService(defaultTopN int) StrengthService {
	return &strengthService{defaultTopN: defaultTopN}
}

func (s *strengthService) Rank(ctx context.Context, req *models.StrengthRequest) (*models.StrengthResponse, error) {
	topN := req.TopN
	if topN == 0 {
		topN = s.defaultTopN
	}

	entries, err := RankStrength(req.Rosters, topN, req.OwnID)
	if err != nil {
		return nil, err
	}

	resp := &models.StrengthResponse{TopN: topN, Entries: entries}
	if own, ok := OwnEntry(entries); ok {
		resp.Advantages = PositionAdvantage(entries, own)
	}
	return resp, nil
}
