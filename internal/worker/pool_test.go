package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/clanwars/cwl-stats/internal/models"
)

func newTestPool(t *testing.T, a Analyzer, workers, queue int) *Pool {
	t.Helper()
	p := NewPool(PoolConfig{
		WorkerCount: workers,
		QueueSize:   queue,
		Analyzer:    a,
		Logger:      zap.NewNop(),
	})
	p.Start(context.Background())
	t.Cleanup(p.Stop)
	return p
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(PoolConfig{})
	if p.config.WorkerCount != 4 || p.config.QueueSize != 64 {
		t.Errorf("defaults = %d workers, %d queue", p.config.WorkerCount, p.config.QueueSize)
	}
	if cap(p.jobQueue) != 64 {
		t.Errorf("queue capacity = %d", cap(p.jobQueue))
	}
}

func TestSubmit(t *testing.T) {
	a := &mockAnalyzer{}
	p := newTestPool(t, a, 2, 8)
	before := counterValue(analysesProcessed)

	got, err := p.Submit(context.Background(), &models.WarSnapshot{}, "#A")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.SelfTag != "#A" {
		t.Errorf("SelfTag = %q", got.SelfTag)
	}
	if a.calls.Load() != 1 {
		t.Errorf("analyzer called %d times", a.calls.Load())
	}
	if after := counterValue(analysesProcessed); after != before+1 {
		t.Errorf("processed counter = %v, want %v", after, before+1)
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	a := &mockAnalyzer{AnalyzeFunc: func(context.Context, *models.WarSnapshot, string) (*models.WarAnalysis, error) {
		return nil, boom
	}}
	p := newTestPool(t, a, 1, 1)
	before := counterValue(analysesFailed)

	if _, err := p.Submit(context.Background(), &models.WarSnapshot{}, "#A"); !errors.Is(err, boom) {
		t.Errorf("Submit() error = %v, want boom", err)
	}
	if after := counterValue(analysesFailed); after != before+1 {
		t.Errorf("failed counter = %v, want %v", after, before+1)
	}
}

func TestSubmitQueueFull(t *testing.T) {
	// Never started, so nothing drains the queue
	p := NewPool(PoolConfig{QueueSize: 1, Analyzer: &mockAnalyzer{}, Logger: zap.NewNop()})
	defer p.cancel()
	p.jobQueue <- Job{Ctx: context.Background(), reply: make(chan result, 1)}

	before := counterValue(analysesLoadShed)
	start := time.Now()
	_, err := p.Submit(context.Background(), &models.WarSnapshot{}, "#A")
	duration := time.Since(start)

	if !errors.Is(err, ErrPoolSaturated) {
		t.Errorf("Submit() error = %v, want ErrPoolSaturated", err)
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Submit took too long (%v), expected immediate return", duration)
	}
	if after := counterValue(analysesLoadShed); after != before+1 {
		t.Errorf("load shed counter = %v, want %v", after, before+1)
	}
	if p.QueueDepth() != 1 {
		t.Errorf("QueueDepth() = %d, want 1", p.QueueDepth())
	}
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(PoolConfig{WorkerCount: 1, Analyzer: &mockAnalyzer{}, Logger: zap.NewNop()})
	p.Start(context.Background())
	p.Stop()

	if _, err := p.Submit(context.Background(), &models.WarSnapshot{}, "#A"); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Submit() error = %v, want ErrPoolStopped", err)
	}
}

func TestStopTwice(t *testing.T) {
	p := NewPool(PoolConfig{WorkerCount: 2, Analyzer: &mockAnalyzer{}, Logger: zap.NewNop()})
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	if _, err := p.Submit(context.Background(), &models.WarSnapshot{}, "#A"); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Submit() error = %v, want ErrPoolStopped", err)
	}
}

func TestSubmitCallerTimeout(t *testing.T) {
	release := make(chan struct{})
	a := &mockAnalyzer{AnalyzeFunc: func(context.Context, *models.WarSnapshot, string) (*models.WarAnalysis, error) {
		<-release
		return &models.WarAnalysis{}, nil
	}}
	p := newTestPool(t, a, 1, 1)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Submit(ctx, &models.WarSnapshot{}, "#A"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Submit() error = %v, want DeadlineExceeded", err)
	}
}

func TestWorkerSkipsCancelledJobs(t *testing.T) {
	a := &mockAnalyzer{}
	p := NewPool(PoolConfig{WorkerCount: 1, QueueSize: 1, Analyzer: a, Logger: zap.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reply := make(chan result, 1)
	p.jobQueue <- Job{Ctx: ctx, Snapshot: &models.WarSnapshot{}, reply: reply}

	p.Start(context.Background())
	defer p.Stop()

	select {
	case r := <-reply:
		if !errors.Is(r.err, context.Canceled) {
			t.Errorf("reply error = %v, want Canceled", r.err)
		}
	case <-time.After(time.Second):
		t.Fatal("no reply for cancelled job")
	}
	if a.calls.Load() != 0 {
		t.Error("analyzer ran for a cancelled job")
	}
}
