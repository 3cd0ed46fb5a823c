package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/logic"
	"github.com/clanwars/cwl-stats/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// AnalysisQueue defines the interface for the analysis worker pool
type AnalysisQueue interface {
	Submit(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
	QueueDepth() int
}

type Config struct {
	Pool            AnalysisQueue
	Logger          *zap.Logger
	AnalysisTimeout time.Duration
	// Services
	Wars     logic.WarService
	Strength logic.StrengthService
}

type Handler struct {
	pool            AnalysisQueue
	logger          *zap.SugaredLogger
	validator       *validator.Validate
	analysisTimeout time.Duration
	wars            logic.WarService
	strength        logic.StrengthService
}

func New(cfg Config) *Handler {
	timeout := cfg.AnalysisTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		pool:            cfg.Pool,
		logger:          cfg.Logger.Sugar(),
		validator:       validator.New(),
		analysisTimeout: timeout,
		wars:            cfg.Wars,
		strength:        cfg.Strength,
	}
}
