// Package tourguide orchestrates location tracking: it pulls fresh positions
// from the GPS feed, appends them to user histories, triggers reward matching,
// and assembles the nearby-attraction view.
package tourguide

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tourguide/internal/app/domain/rewards"
	"github.com/FACorreiaa/go-tourguide/internal/app/models"
	"github.com/FACorreiaa/go-tourguide/internal/app/repository"
)

// LocationProvider is the external feed of user positions.
type LocationProvider interface {
	UserLocation(ctx context.Context, userID uuid.UUID) (models.VisitedLocation, error)
}

// TrackResult is the outcome of one tracking pass: the recorded location plus
// the reward-matching error, if any. When the result is delivered, all three
// steps (fetch, append, match) have finished.
type TrackResult struct {
	Visited models.VisitedLocation
	Err     error
}

// ServiceImpl drives tracking and presentation on top of the rewards engine.
type ServiceImpl struct {
	logger  *zap.Logger
	gps     LocationProvider
	rewards rewards.Service
	users   *repository.UserRepository
	pool    *rewards.WorkerPool
}

// NewService builds the tracking service. The pool must be the same one the
// rewards service batches on, so tracking and batch work share one bound.
func NewService(gpsProvider LocationProvider, rewardsService rewards.Service, users *repository.UserRepository, pool *rewards.WorkerPool, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		gps:     gpsProvider,
		rewards: rewardsService,
		users:   users,
		pool:    pool,
	}
}

// TrackUserLocation fetches the user's current position, appends it to the
// history, and runs a reward-matching pass. The location is returned even
// when matching reports a soft failure; the pairing stays eligible for the
// next pass.
func (s *ServiceImpl) TrackUserLocation(ctx context.Context, user *models.User) (models.VisitedLocation, error) {
	ctx, span := otel.Tracer("TourGuideService").Start(ctx, "TrackUserLocation", trace.WithAttributes(
		attribute.String("user.id", user.ID.String()),
	))
	defer span.End()

	visited, err := s.gps.UserLocation(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location fetch failed")
		return models.VisitedLocation{}, fmt.Errorf("fetching location for %s: %w", user.Username, err)
	}
	user.AddVisitedLocation(visited)

	if err := s.rewards.CalculateRewards(ctx, user); err != nil {
		s.logger.Warn("reward matching incomplete after tracking",
			zap.String("userID", user.ID.String()), zap.Error(err))
		span.RecordError(err)
		return visited, err
	}
	span.SetStatus(codes.Ok, "location tracked")
	return visited, nil
}

// TrackUserLocationAsync runs the whole tracking pass (fetch, append, match)
// as one task on the shared worker pool. The returned channel receives
// exactly one TrackResult; its delivery means every step has completed, so
// callers never observe a half-tracked user.
func (s *ServiceImpl) TrackUserLocationAsync(ctx context.Context, user *models.User) <-chan TrackResult {
	ch := make(chan TrackResult, 1)
	if err := s.pool.Go(ctx, func() {
		visited, err := s.TrackUserLocation(ctx, user)
		ch <- TrackResult{Visited: visited, Err: err}
	}); err != nil {
		ch <- TrackResult{Err: err}
	}
	return ch
}

// TrackAllUsers tracks every registered user through the shared pool and
// waits for all of them. processed counts completed users for progress
// reporting; pass nil if not interested.
func (s *ServiceImpl) TrackAllUsers(ctx context.Context, processed *atomic.Int64) {
	users := s.users.AllUsers()
	results := make([]<-chan TrackResult, 0, len(users))
	for _, user := range users {
		results = append(results, s.TrackUserLocationAsync(ctx, user))
	}
	for i, ch := range results {
		res := <-ch
		if res.Err != nil {
			s.logger.Warn("tracking pass failed",
				zap.String("userID", users[i].ID.String()), zap.Error(res.Err))
		}
		if processed != nil {
			processed.Add(1)
		}
	}
}

// GetUserLocation returns the user's latest known position, tracking a fresh
// one when the history is empty.
func (s *ServiceImpl) GetUserLocation(ctx context.Context, user *models.User) (models.VisitedLocation, error) {
	if visited, ok := user.LastVisitedLocation(); ok {
		return visited, nil
	}
	return s.TrackUserLocation(ctx, user)
}

// GetNearbyAttractions returns the attractions closest to a visited location,
// each carrying its exact distance and the points it would yield. A scoring
// outage degrades a row to zero points rather than failing the whole view.
func (s *ServiceImpl) GetNearbyAttractions(ctx context.Context, visited models.VisitedLocation, limit int) (*models.NearbyAttractionsResponse, error) {
	ctx, span := otel.Tracer("TourGuideService").Start(ctx, "GetNearbyAttractions", trace.WithAttributes(
		attribute.String("user.id", visited.UserID.String()),
	))
	defer span.End()

	ranked, err := s.rewards.GetNearestAttractions(ctx, visited.Location, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ranking failed")
		return nil, fmt.Errorf("ranking attractions: %w", err)
	}

	nearest := make([]models.NearbyAttraction, 0, len(ranked))
	for _, r := range ranked {
		points, err := s.rewards.GetRewardPoints(ctx, r.Attraction, visited.UserID)
		if err != nil {
			s.logger.Warn("points unavailable for nearby attraction",
				zap.String("attraction", r.Attraction.Name), zap.Error(err))
			points = 0
		}
		nearest = append(nearest, models.NearbyAttraction{
			AttractionName: r.Attraction.Name,
			Latitude:       r.Attraction.Location.Latitude,
			Longitude:      r.Attraction.Location.Longitude,
			Distance:       r.Distance,
			RewardPoints:   points,
		})
	}

	span.SetStatus(codes.Ok, "nearby attractions assembled")
	return &models.NearbyAttractionsResponse{
		UserLatitude:       visited.Location.Latitude,
		UserLongitude:      visited.Location.Longitude,
		NearestAttractions: nearest,
	}, nil
}

// GetUserRewards returns a snapshot of the user's earned rewards.
func (s *ServiceImpl) GetUserRewards(user *models.User) []models.UserReward {
	return user.Rewards()
}
