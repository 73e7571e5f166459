package tourguide

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Tracker periodically tracks every registered user. It replaces ad-hoc
// background threads with a single loop that stops cleanly when its context
// is cancelled.
type Tracker struct {
	logger   *zap.Logger
	service  *ServiceImpl
	interval time.Duration
}

// NewTracker builds a tracker polling at the given interval.
func NewTracker(service *ServiceImpl, interval time.Duration, logger *zap.Logger) *Tracker {
	return &Tracker{
		logger:   logger,
		service:  service,
		interval: interval,
	}
}

// Run tracks all users immediately and then on every tick until ctx is
// cancelled. It blocks; run it on its own goroutine.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		t.trackOnce(ctx)
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
		}
	}
}

func (t *Tracker) trackOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	var processed atomic.Int64
	started := time.Now()
	t.service.TrackAllUsers(ctx, &processed)
	t.logger.Debug("tracking cycle finished",
		zap.Int64("usersProcessed", processed.Load()),
		zap.Duration("elapsed", time.Since(started)))
}
