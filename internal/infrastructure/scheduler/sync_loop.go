// Package scheduler drives recurring sync cycles with a fixed inter-cycle
// delay and graceful shutdown.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appsync "github.com/orderbridge/backend/internal/application/sync"
)

// CycleRunner runs one full sync pass. Implemented by sync.SyncService.
type CycleRunner interface {
	SyncAll(ctx context.Context) (*appsync.CycleReport, error)
}

// SyncLoop runs sync cycles back to back with a fixed delay between the end
// of one cycle and the start of the next. Cycles never overlap: a slow cycle
// simply pushes the next one out.
type SyncLoop struct {
	runner   CycleRunner
	interval time.Duration
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncLoop creates a new SyncLoop
func NewSyncLoop(runner CycleRunner, interval time.Duration, logger *zap.Logger) (*SyncLoop, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncLoop{
		runner:   runner,
		interval: interval,
		logger:   logger.Named("sync-loop"),
	}, nil
}

// Start starts the loop. The first cycle runs immediately. Calling Start on
// a running loop is a no-op.
func (l *SyncLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.isRunning {
		l.mu.Unlock()
		return nil
	}
	l.isRunning = true
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)
	go l.run(ctx)

	l.logger.Info("sync loop started", zap.Duration("interval", l.interval))
	return nil
}

// Stop stops the loop and waits for an in-flight cycle to finish, bounded
// by the given context.
func (l *SyncLoop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.isRunning {
		l.mu.Unlock()
		return ErrLoopNotRunning
	}
	l.isRunning = false
	l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("sync loop stopped")
		return nil
	case <-ctx.Done():
		l.logger.Warn("sync loop stop timed out")
		return ctx.Err()
	}
}

// RunOnce runs a single cycle outside the recurring loop. The on-demand
// trigger and the loop share the same cycle implementation.
func (l *SyncLoop) RunOnce(ctx context.Context) (*appsync.CycleReport, error) {
	return l.runner.SyncAll(ctx)
}

func (l *SyncLoop) run(ctx context.Context) {
	defer l.wg.Done()

	for {
		if _, err := l.runner.SyncAll(ctx); err != nil && ctx.Err() == nil {
			l.logger.Error("sync cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.interval):
		}
	}
}
