// Package scoring wraps the external reward-point source. The engine only
// ever talks to it through the PointsSource interface so tests can count and
// fail calls at will.
package scoring

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PointsSource returns the point value an attraction is worth for a user.
// Calls may be slow and may fail; callers are expected to memoize.
type PointsSource interface {
	RewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

// Central simulates the hosted scoring service: a random point value per
// call, with optional artificial latency.
type Central struct {
	latency time.Duration
}

var _ PointsSource = (*Central)(nil)

// NewCentral builds a scoring source with no artificial latency.
func NewCentral() *Central {
	return &Central{}
}

// NewCentralWithLatency builds a scoring source that delays every call by d.
func NewCentralWithLatency(d time.Duration) *Central {
	return &Central{latency: d}
}

// RewardPoints returns a value in [1, 1000].
func (c *Central) RewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, errors.Wrap(ctx.Err(), "scoring call cancelled")
		case <-timer.C:
		}
	}
	return 1 + rand.Intn(1000), nil
}
