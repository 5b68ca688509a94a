package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTriggerConfig holds configuration for an interval trigger
type IntervalTriggerConfig struct {
	JobName  string
	Interval time.Duration
	// RunOnStart submits one run immediately instead of waiting a full interval
	RunOnStart bool
}

// IntervalTrigger submits a named job to the scheduler on a fixed interval
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	if t.config.Interval <= 0 {
		return ErrInvalidConfig
	}

	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.String("job", t.config.JobName),
		zap.Duration("interval", t.config.Interval),
	)

	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped", zap.String("job", t.config.JobName))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.trigger()
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.trigger()
		}
	}
}

func (t *IntervalTrigger) trigger() {
	job, err := t.scheduler.Submit(t.config.JobName)
	switch {
	case err == nil:
		t.logger.Debug("Triggered job",
			zap.String("job", t.config.JobName),
			zap.String("job_id", job.ID.String()),
		)
	case errors.Is(err, ErrJobQueueFull):
		// the previous run is still queued
		t.logger.Debug("Skipped trigger, queue full", zap.String("job", t.config.JobName))
	default:
		t.logger.Warn("Failed to trigger job",
			zap.String("job", t.config.JobName),
			zap.Error(err),
		)
	}
}
