package rewards

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tourguide/internal/app/geo"
	"github.com/FACorreiaa/go-tourguide/internal/app/models"
	"github.com/FACorreiaa/go-tourguide/internal/pkg/config"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// AttractionCatalog lists the attraction catalog. Static per process.
type AttractionCatalog interface {
	Attractions(ctx context.Context) ([]models.Attraction, error)
}

// Service is the reward matching and ranking engine contract.
type Service interface {
	GetDistance(a, b models.Location) float64
	IsWithinAttractionProximity(attraction models.Attraction, loc models.Location) bool
	IsNearbyAttraction(attraction models.Attraction, loc models.Location) bool
	GetRewardPoints(ctx context.Context, attraction models.Attraction, userID uuid.UUID) (int, error)
	CalculateRewards(ctx context.Context, user *models.User) error
	CalculateRewardsAsync(ctx context.Context, user *models.User) <-chan error
	CalculateBatchRewards(ctx context.Context, users []*models.User, processed *atomic.Int64) *BatchReport
	GetNearestAttractions(ctx context.Context, loc models.Location, limit int) ([]models.RankedAttraction, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger  *zap.Logger
	catalog AttractionCatalog
	points  *PointsCache
	pool    *WorkerPool
	cfg     config.RewardsConfig
}

// NewService wires the engine together. The worker pool is shared with
// whoever else schedules per-user work (the location tracker).
func NewService(catalog AttractionCatalog, source PointsSource, pool *WorkerPool, cfg config.RewardsConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		catalog: catalog,
		points:  NewPointsCache(source, cfg.PointsCacheTTL, logger),
		pool:    pool,
		cfg:     cfg,
	}
}

// GetDistance returns the great-circle distance between two locations in
// statute miles. Pure utility, exposed for callers that need raw distances.
func (s *ServiceImpl) GetDistance(a, b models.Location) float64 {
	return geo.Distance(a, b)
}

// IsWithinAttractionProximity reports whether a position counts as being "at"
// the attraction for reward purposes.
func (s *ServiceImpl) IsWithinAttractionProximity(attraction models.Attraction, loc models.Location) bool {
	return geo.Distance(attraction.Location, loc) <= s.cfg.ProximityBufferMiles
}

// IsNearbyAttraction reports whether an attraction is close enough to show as
// nearby. This is a much looser radius than the reward buffer.
func (s *ServiceImpl) IsNearbyAttraction(attraction models.Attraction, loc models.Location) bool {
	return geo.Distance(attraction.Location, loc) <= s.cfg.AttractionProximityRangeMiles
}

// GetRewardPoints returns the memoized point value an attraction would yield.
func (s *ServiceImpl) GetRewardPoints(ctx context.Context, attraction models.Attraction, userID uuid.UUID) (int, error) {
	return s.points.GetRewardPoints(ctx, attraction, userID)
}

// CalculateRewards runs one matching pass for a single user: every snapshot
// location is tested against every attraction, and each attraction inside the
// proximity buffer earns at most one reward. Re-running with no new visited
// locations is a no-op. A scoring failure skips that pairing, leaves it
// eligible for a later pass, and is reported as a soft failure.
func (s *ServiceImpl) CalculateRewards(ctx context.Context, user *models.User) error {
	ctx, span := otel.Tracer("RewardsService").Start(ctx, "CalculateRewards", trace.WithAttributes(
		attribute.String("user.id", user.ID.String()),
	))
	defer span.End()

	visited := user.VisitedLocations()
	if len(visited) == 0 {
		return nil
	}

	attractions, err := s.catalog.Attractions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list attractions")
		return fmt.Errorf("listing attractions: %w", err)
	}

	l := s.logger.With(zap.String("method", "CalculateRewards"), zap.String("userID", user.ID.String()))

	var skipped int
	var lastErr error
	// Visited locations are walked in recorded order so the earliest
	// qualifying visit is the one attached to the reward.
	for _, v := range visited {
		for _, attraction := range attractions {
			if user.HasRewardFor(attraction.Name) {
				continue
			}
			if !s.IsWithinAttractionProximity(attraction, v.Location) {
				continue
			}
			points, err := s.points.GetRewardPoints(ctx, attraction, user.ID)
			if err != nil {
				skipped++
				lastErr = err
				l.Warn("skipping attraction, scoring unavailable",
					zap.String("attraction", attraction.Name), zap.Error(err))
				continue
			}
			if user.AddReward(models.UserReward{
				VisitedLocation: v,
				Attraction:      attraction,
				RewardPoints:    points,
			}) {
				rewardsAwardedTotal.Inc()
			}
		}
	}

	if skipped > 0 {
		span.SetStatus(codes.Error, "some attractions left unscored")
		return fmt.Errorf("%d attraction(s) left unscored: %w", skipped, lastErr)
	}
	span.SetStatus(codes.Ok, "rewards calculated")
	return nil
}

// GetNearestAttractions ranks the whole catalog by distance from loc and
// returns the closest limit entries, catalog order breaking ties. A limit
// of zero or less falls back to the configured default; a limit beyond the
// catalog size returns the whole catalog.
func (s *ServiceImpl) GetNearestAttractions(ctx context.Context, loc models.Location, limit int) ([]models.RankedAttraction, error) {
	ctx, span := otel.Tracer("RewardsService").Start(ctx, "GetNearestAttractions", trace.WithAttributes(
		attribute.Float64("location.latitude", loc.Latitude),
		attribute.Float64("location.longitude", loc.Longitude),
		attribute.Int("limit", limit),
	))
	defer span.End()

	attractions, err := s.catalog.Attractions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list attractions")
		return nil, fmt.Errorf("listing attractions: %w", err)
	}

	ranked := make([]models.RankedAttraction, 0, len(attractions))
	for _, attraction := range attractions {
		ranked = append(ranked, models.RankedAttraction{
			Attraction: attraction,
			Distance:   geo.Distance(loc, attraction.Location),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	if limit <= 0 {
		limit = s.cfg.NearbyAttractionLimit
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	span.SetStatus(codes.Ok, "attractions ranked")
	return ranked[:limit], nil
}
