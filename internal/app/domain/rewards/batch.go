package rewards

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// WorkerPool bounds the goroutines spent on per-user work. One pool is shared
// between batch reward runs and async location tracking so the process never
// spawns unbounded goroutines no matter how the work arrives.
type WorkerPool struct {
	sem *semaphore.Weighted
}

// NewWorkerPool builds a pool admitting up to size concurrent tasks.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(size))}
}

// Go runs task on its own goroutine once a pool slot is free. It blocks until
// a slot is acquired or ctx is done; a ctx error means the task was never
// started.
func (p *WorkerPool) Go(ctx context.Context, task func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer p.sem.Release(1)
		task()
	}()
	return nil
}

// UserFailure identifies a user whose matching pass failed and why.
type UserFailure struct {
	UserID   uuid.UUID
	Username string
	Err      error
}

// BatchReport summarizes a batch run. A cancelled batch is visible as
// Submitted < total and a shorter progress count, never as silently missing
// rewards.
type BatchReport struct {
	Submitted int
	Failures  []UserFailure
}

// CalculateBatchRewards runs CalculateRewards once for every user, up to the
// pool's parallelism, and returns once every submitted user has been
// attempted. processed is incremented as users complete so callers can watch
// progress; pass nil if not interested. One user's failure never aborts the
// rest; failed users are listed in the report.
//
// The outcome is identical to running CalculateRewards sequentially over the
// same users: tasks never share per-user state and the points cache is safe
// for concurrent use.
func (s *ServiceImpl) CalculateBatchRewards(ctx context.Context, users []*models.User, processed *atomic.Int64) *BatchReport {
	ctx, span := otel.Tracer("RewardsService").Start(ctx, "CalculateBatchRewards", trace.WithAttributes(
		attribute.Int("users.count", len(users)),
	))
	defer span.End()

	if processed == nil {
		processed = new(atomic.Int64)
	}

	report := &BatchReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, user := range users {
		user := user
		wg.Add(1)
		err := s.pool.Go(ctx, func() {
			defer wg.Done()
			if err := s.CalculateRewards(ctx, user); err != nil {
				mu.Lock()
				report.Failures = append(report.Failures, UserFailure{
					UserID:   user.ID,
					Username: user.Username,
					Err:      err,
				})
				mu.Unlock()
			}
			processed.Add(1)
			usersProcessedTotal.Inc()
		})
		if err != nil {
			// Context cancelled while waiting for a slot: stop
			// submitting. Users already running finish below.
			wg.Done()
			s.logger.Warn("batch cancelled before all users were submitted",
				zap.Int("submitted", report.Submitted),
				zap.Int("total", len(users)),
				zap.Error(err))
			break
		}
		report.Submitted++
	}

	wg.Wait()

	span.SetAttributes(
		attribute.Int("users.submitted", report.Submitted),
		attribute.Int("users.failed", len(report.Failures)),
	)
	return report
}

// CalculateRewardsAsync schedules a single user's matching pass on the worker
// pool and returns immediately. The channel receives the pass result exactly
// once.
func (s *ServiceImpl) CalculateRewardsAsync(ctx context.Context, user *models.User) <-chan error {
	ch := make(chan error, 1)
	if err := s.pool.Go(ctx, func() {
		ch <- s.CalculateRewards(ctx, user)
	}); err != nil {
		ch <- err
	}
	return ch
}
