// Package worker implements the bounded worker pool that runs war analyses.
// It decouples HTTP request handling from CPU-bound simulation:
// - a fixed number of analyses run at once
// - load shedding when the queue is full instead of unbounded goroutines
// - graceful shutdown that drains queued jobs

package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/models"
)

var (
	// ErrPoolSaturated is returned when the queue is full
	ErrPoolSaturated = errors.New("analysis queue full")
	// ErrPoolStopped is returned after Stop
	ErrPoolStopped = errors.New("analysis pool stopped")
)

// Prometheus metrics
var (
	analysesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cwl_analyses_submitted_total",
		Help: "Total number of war analyses accepted into the queue",
	})

	analysesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cwl_analyses_processed_total",
		Help: "Total number of war analyses completed by workers",
	})

	analysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cwl_analyses_failed_total",
		Help: "Total number of war analyses that returned an error",
	})

	analysesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cwl_analyses_load_shed_total",
		Help: "Total number of war analyses rejected because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cwl_analysis_queue_depth",
		Help: "Current depth of the analysis queue",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cwl_analysis_duration_seconds",
		Help:    "Duration of a single war analysis",
		Buckets: prometheus.DefBuckets,
	})

	verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cwl_verdicts_total",
		Help: "War analyses by outcome kind",
	}, []string{"kind"})
)

// Analyzer is the work the pool runs
type Analyzer interface {
	Analyze(ctx context.Context, snap *models.WarSnapshot, selfTag string) (*models.WarAnalysis, error)
}

// Job represents one queued analysis
type Job struct {
	Ctx      context.Context
	Snapshot *models.WarSnapshot
	SelfTag  string
	Queued   time.Time
	reply    chan result
}

type result struct {
	analysis *models.WarAnalysis
	err      error
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	Analyzer    Analyzer
	Logger      *zap.Logger
}

// Pool runs analyses on a fixed set of workers
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.cancel()
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Analysis pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
	)
}

// Stop drains queued jobs and waits for the workers to exit. Later calls
// are no-ops.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping analysis pool...")
		p.cancel()
		close(p.jobQueue)
		p.wg.Wait()
		p.logger.Info("Analysis pool stopped")
	})
}

// Submit queues an analysis and waits for its result. It never blocks on a
// full queue: the job is shed with ErrPoolSaturated instead.
func (p *Pool) Submit(ctx context.Context, snap *models.WarSnapshot, selfTag string) (analysis *models.WarAnalysis, err error) {
	if p.ctx.Err() != nil {
		return nil, ErrPoolStopped
	}

	job := Job{
		Ctx:      ctx,
		Snapshot: snap,
		SelfTag:  selfTag,
		Queued:   time.Now(),
		reply:    make(chan result, 1),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to submit analysis (pool stopped)", "error", r)
			analysis, err = nil, ErrPoolStopped
		}
	}()

	select {
	case p.jobQueue <- job:
		analysesSubmitted.Inc()
	default:
		analysesLoadShed.Inc()
		p.logger.Warnw("Analysis queue full, shedding request", "clan", selfTag)
		return nil, ErrPoolSaturated
	}

	select {
	case r := <-job.reply:
		return r.analysis, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		// The caller gave up while the job was queued
		if err := job.Ctx.Err(); err != nil {
			job.reply <- result{err: err}
			continue
		}

		start := time.Now()
		analysis, err := p.config.Analyzer.Analyze(job.Ctx, job.Snapshot, job.SelfTag)
		analysisDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			analysesFailed.Inc()
			p.logger.Debugw("Analysis failed", "worker", id, "clan", job.SelfTag, "error", err)
		} else {
			analysesProcessed.Inc()
			verdicts.WithLabelValues(string(analysis.Outcome.Kind)).Inc()
		}
		job.reply <- result{analysis: analysis, err: err}
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
