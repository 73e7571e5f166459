package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// PointsSource is the external scoring collaborator. Potentially slow, may
// fail. The observed service returns the same value for an attraction no
// matter which user asks, which is what makes the cache below valid.
type PointsSource interface {
	RewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

// PointsCache memoizes the points source per attraction so a batch run over
// hundreds of thousands of users costs one external call per attraction.
// Failures are never cached; a failed pairing stays eligible for the next
// pass.
type PointsCache struct {
	logger *zap.Logger
	source PointsSource
	cache  *cache.Cache
	group  singleflight.Group
}

// NewPointsCache builds a cache in front of source. A ttl of zero keeps
// values forever; point values are invariant per attraction, so expiry is
// only a memory valve.
func NewPointsCache(source PointsSource, ttl time.Duration, logger *zap.Logger) *PointsCache {
	expiry := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiry = ttl
		cleanup = 2 * ttl
	}
	return &PointsCache{
		logger: logger,
		source: source,
		cache:  cache.New(expiry, cleanup),
	}
}

// GetRewardPoints returns the point value of an attraction, consulting the
// external source only on a cache miss. Concurrent misses for the same
// attraction are collapsed into a single call.
func (c *PointsCache) GetRewardPoints(ctx context.Context, attraction models.Attraction, userID uuid.UUID) (int, error) {
	key := attraction.ID.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(int), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A racing caller may have filled the cache while we queued.
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		scoringCallsTotal.Inc()
		points, err := c.source.RewardPoints(ctx, attraction.ID, userID)
		if err != nil {
			scoringFailuresTotal.Inc()
			c.logger.Warn("points source call failed",
				zap.String("attraction", attraction.Name),
				zap.Error(err))
			return 0, fmt.Errorf("%w: %s: %v", models.ErrScoringUnavailable, attraction.Name, err)
		}
		c.cache.Set(key, points, cache.DefaultExpiration)
		return points, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
