package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits one named job at a fixed interval, and once right
// after Start when RunOnStart is set.
type IntervalTrigger struct {
	scheduler  *Scheduler
	jobName    string
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger for jobName
func NewIntervalTrigger(s *Scheduler, jobName string, interval time.Duration, runOnStart bool, logger *zap.Logger) *IntervalTrigger {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &IntervalTrigger{
		scheduler:  s,
		jobName:    jobName,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger.Named("trigger"),
	}
}

// Start begins ticking
func (t *IntervalTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return
	}
	t.isRunning = true

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Interval trigger started",
		zap.String("job", t.jobName),
		zap.Duration("interval", t.interval),
	)
}

// Stop halts the ticker and waits for the loop to exit
func (t *IntervalTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *IntervalTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	if t.runOnStart {
		t.fire()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *IntervalTrigger) fire() {
	if _, err := t.scheduler.Submit(t.jobName); err != nil {
		t.logger.Warn("Failed to submit scheduled job", zap.String("job", t.jobName), zap.Error(err))
	}
}
