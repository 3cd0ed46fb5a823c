package handlers

import (
	"context"

	"github.com/clanwars/cwl-stats/internal/models"
)

// MockAnalysisQueue implements AnalysisQueue
type MockAnalysisQueue struct {
	SubmitFunc func(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
	Depth      int
}

func (m *MockAnalysisQueue) Submit(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, snap, selfTag)
	}
	return &models.WarAnalysis{SelfTag: selfTag, Outcome: models.OpenResult(50, 0, 50)}, nil
}

func (m *MockAnalysisQueue) QueueDepth() int { return m.Depth }

// MockWarService implements logic.WarService
type MockWarService struct {
	AnalyzeFunc      func(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
	SummarizeFunc    func(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarSummary, error)
	SelectRoundsFunc func(ctx context.Context, rounds []models.RoundWar, clanTag string, all bool) (*models.RoundSelection, error)
}

func (m *MockWarService) Analyze(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, snap, selfTag)
	}
	return &models.WarAnalysis{}, nil
}

func (m *MockWarService) Summarize(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarSummary, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, snap, selfTag)
	}
	return &models.WarSummary{}, nil
}

func (m *MockWarService) SelectRounds(ctx context.Context, rounds []models.RoundWar, clanTag string, all bool) (*models.RoundSelection, error) {
	if m.SelectRoundsFunc != nil {
		return m.SelectRoundsFunc(ctx, rounds, clanTag, all)
	}
	return &models.RoundSelection{Mode: "live"}, nil
}

// MockStrengthService implements logic.StrengthService
type MockStrengthService struct {
	RankFunc func(ctx context.Context, req *models.StrengthRequest) (*models.StrengthResponse, error)
}

func (m *MockStrengthService) Rank(ctx context.Context, req *models.StrengthRequest) (*models.StrengthResponse, error) {
	if m.RankFunc != nil {
		return m.RankFunc(ctx, req)
	}
	return &models.StrengthResponse{TopN: req.TopN}, nil
}
