package worker

import (
	"context"
	"sync/atomic"

	"github.com/clanwars/cwl-stats/internal/models"
)

// mockAnalyzer implements Analyzer for testing
type mockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
	calls       atomic.Int64
}

func (m *mockAnalyzer) Analyze(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error) {
	m.calls.Add(1)
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, snap, selfTag)
	}
	return &models.WarAnalysis{SelfTag: selfTag, Outcome: models.FinalResult(models.ResultWin)}, nil
}
