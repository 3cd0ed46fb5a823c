package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/config"
	"github.com/clanwars/cwl-stats/internal/handlers"
	"github.com/clanwars/cwl-stats/internal/logic"
	"github.com/clanwars/cwl-stats/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	model, err := logic.ResolveStarModel(cfg.StarPreset, cfg.StarPresets)
	if err != nil {
		sugar.Fatalw("Invalid star preset", "preset", cfg.StarPreset, "error", err)
	}

	estimator := &logic.Estimator{
		Model:  model,
		Trials: cfg.Trials,
		Shards: cfg.Shards,
		Jitter: cfg.Jitter,
		Seed:   cfg.Seed,
	}
	wars := logic.NewWarService(estimator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		Analyzer:    wars,
		Logger:      logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		Pool:            pool,
		Logger:          logger,
		AnalysisTimeout: cfg.AnalysisTimeout,
		Wars:            wars,
		Strength:        logic.NewStrengthService(cfg.StrengthTopN),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening",
			"port", cfg.Port,
			"env", cfg.Env,
			"preset", model.Name,
			"trials", cfg.Trials,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	pool.Stop()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
