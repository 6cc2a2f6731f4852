package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
)

var (
	reconcilerOnce sync.Once
	reconcilerInst *TimeSettingReconciler
)

// TimeSettingReconciler backfills default duty-window rows for users missing
// them, once at startup and then on a fixed interval. A failed run is logged
// and retried on the next tick, never fatal.
type TimeSettingReconciler struct {
	logger      *zap.Logger
	jobRunning  bool
	jobMu       sync.Mutex
	lastRunTime time.Time
}

func GetReconciler() *TimeSettingReconciler {
	reconcilerOnce.Do(func() {
		reconcilerInst = &TimeSettingReconciler{
			logger: logger.Logger,
		}
	})
	return reconcilerInst
}

// Run executes one reconcile pass. Overlapping runs are rejected with
// ErrReconcilerAlreadyBusy so a manual trigger cannot pile onto the ticker.
func (r *TimeSettingReconciler) Run(ctx context.Context) (int64, error) {
	r.jobMu.Lock()
	if r.jobRunning {
		r.jobMu.Unlock()
		return 0, errors.ErrReconcilerAlreadyBusy
	}
	r.jobRunning = true
	r.jobMu.Unlock()

	defer func() {
		r.jobMu.Lock()
		r.jobRunning = false
		r.jobMu.Unlock()
	}()

	startTime := time.Now()
	r.lastRunTime = startTime

	inserted, err := service.Reconcile().EnsureDefaults(ctx)
	if err != nil {
		r.logger.Error("Time setting reconcile pass failed", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Time setting reconcile pass finished",
		zap.Int64("inserted", inserted),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return inserted, nil
}

// Start blocks running the reconcile loop until the context is cancelled.
// Meant to run in its own goroutine.
func (r *TimeSettingReconciler) Start(ctx context.Context, interval time.Duration) {
	if _, err := r.Run(ctx); err != nil {
		r.logger.Error("Initial reconcile run failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.Run(ctx); err != nil {
				r.logger.Error("Scheduled reconcile run failed", zap.Error(err))
			}
		}
	}
}
