package rewards

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
	"github.com/FACorreiaa/go-tourguide/internal/pkg/config"
)

// MockCatalog is a testify mock for the attraction catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Attractions(ctx context.Context) ([]models.Attraction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attraction), args.Error(1)
}

// stubCatalog serves a fixed slice without call bookkeeping; the high-volume
// tests hit the catalog far too often for a recording mock.
type stubCatalog struct {
	attractions []models.Attraction
}

func (s *stubCatalog) Attractions(_ context.Context) ([]models.Attraction, error) {
	return s.attractions, nil
}

// countingSource counts external scoring calls and can be switched into a
// failing state.
type countingSource struct {
	calls  atomic.Int64
	points int
	err    error
}

func (c *countingSource) RewardPoints(_ context.Context, _, _ uuid.UUID) (int, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return c.points, nil
}

// deterministicSource derives points from the attraction identity so separate
// runs over the same catalog always score identically.
type deterministicSource struct {
	calls atomic.Int64
}

func (d *deterministicSource) RewardPoints(_ context.Context, attractionID, _ uuid.UUID) (int, error) {
	d.calls.Add(1)
	return int(attractionID[0]) + 1, nil
}

func testRewardsConfig() config.RewardsConfig {
	return config.RewardsConfig{
		ProximityBufferMiles:          10,
		AttractionProximityRangeMiles: 200,
		NearbyAttractionLimit:         5,
		WorkerPoolSize:                16,
	}
}

func newTestService(catalog AttractionCatalog, source PointsSource) *ServiceImpl {
	cfg := testRewardsConfig()
	return NewService(catalog, source, NewWorkerPool(cfg.WorkerPoolSize), cfg, zap.NewNop())
}

func testAttraction(name string, lat, lon float64) models.Attraction {
	return models.Attraction{
		ID:       uuid.New(),
		Name:     name,
		Location: models.Location{Latitude: lat, Longitude: lon},
	}
}

func userAt(locations ...models.Location) *models.User {
	user := models.NewUser(uuid.New(), "testUser")
	for _, loc := range locations {
		user.AddVisitedLocation(models.VisitedLocation{UserID: user.ID, Location: loc})
	}
	return user
}

func TestCalculateRewards_AwardsOnlyAttractionsWithinBuffer(t *testing.T) {
	attractionA := testAttraction("A", 0, 0)
	attractionB := testAttraction("B", 1, 1)
	catalog := &stubCatalog{attractions: []models.Attraction{attractionA, attractionB}}
	source := &countingSource{points: 100}
	svc := newTestService(catalog, source)

	// Visit A exactly, then somewhere far from both.
	user := userAt(models.Location{Latitude: 0, Longitude: 0}, models.Location{Latitude: 5, Longitude: 5})
	require.NoError(t, svc.CalculateRewards(context.Background(), user))

	rewardList := user.Rewards()
	require.Len(t, rewardList, 1)
	assert.Equal(t, "A", rewardList[0].Attraction.Name)
	assert.Equal(t, 100, rewardList[0].RewardPoints)
	assert.Equal(t, models.Location{Latitude: 0, Longitude: 0}, rewardList[0].VisitedLocation.Location)
}

func TestCalculateRewards_Idempotent(t *testing.T) {
	attraction := testAttraction("Disneyland", 33.817595, -117.922008)
	catalog := &stubCatalog{attractions: []models.Attraction{attraction}}
	svc := newTestService(catalog, &countingSource{points: 50})

	user := userAt(attraction.Location)
	require.NoError(t, svc.CalculateRewards(context.Background(), user))
	require.NoError(t, svc.CalculateRewards(context.Background(), user))

	assert.Len(t, user.Rewards(), 1)
}

func TestCalculateRewards_OneRewardPerAttraction(t *testing.T) {
	attraction := testAttraction("Disneyland", 33.817595, -117.922008)
	catalog := &stubCatalog{attractions: []models.Attraction{attraction}}
	svc := newTestService(catalog, &countingSource{points: 50})

	// Four qualifying visits to the same attraction.
	user := userAt(attraction.Location, attraction.Location, attraction.Location, attraction.Location)
	require.NoError(t, svc.CalculateRewards(context.Background(), user))

	rewardList := user.Rewards()
	require.Len(t, rewardList, 1)
	// The earliest qualifying visit is the one attached to the reward.
	assert.Equal(t, user.VisitedLocations()[0], rewardList[0].VisitedLocation)
}

func TestCalculateRewards_MultipleDistinctAttractions(t *testing.T) {
	attractionA := testAttraction("A", 0, 0)
	attractionB := testAttraction("B", 20, 20)
	catalog := &stubCatalog{attractions: []models.Attraction{attractionA, attractionB}}
	svc := newTestService(catalog, &countingSource{points: 10})

	user := userAt(attractionA.Location, attractionB.Location)
	require.NoError(t, svc.CalculateRewards(context.Background(), user))

	rewardList := user.Rewards()
	require.Len(t, rewardList, 2)
	assert.Equal(t, "A", rewardList[0].Attraction.Name)
	assert.Equal(t, "B", rewardList[1].Attraction.Name)
}

func TestCalculateRewards_EmptyHistoryIsNoop(t *testing.T) {
	catalog := &MockCatalog{}
	svc := newTestService(catalog, &countingSource{points: 10})

	user := models.NewUser(uuid.New(), "fresh")
	require.NoError(t, svc.CalculateRewards(context.Background(), user))
	assert.Empty(t, user.Rewards())
	// The catalog is never consulted for an empty history.
	catalog.AssertNotCalled(t, "Attractions", mock.Anything)
}

func TestCalculateRewards_EmptyCatalog(t *testing.T) {
	catalog := &MockCatalog{}
	catalog.On("Attractions", mock.Anything).Return([]models.Attraction{}, nil)
	svc := newTestService(catalog, &countingSource{points: 10})

	user := userAt(models.Location{Latitude: 1, Longitude: 1})
	require.NoError(t, svc.CalculateRewards(context.Background(), user))
	assert.Empty(t, user.Rewards())
}

func TestCalculateRewards_ScoringFailureIsSoftAndRetryable(t *testing.T) {
	attraction := testAttraction("Disneyland", 33.817595, -117.922008)
	catalog := &stubCatalog{attractions: []models.Attraction{attraction}}
	source := &countingSource{points: 75, err: errors.New("timeout")}
	svc := newTestService(catalog, source)

	user := userAt(attraction.Location)

	err := svc.CalculateRewards(context.Background(), user)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrScoringUnavailable)
	assert.Empty(t, user.Rewards(), "no reward may be awarded without a point value")

	// The failure must not be cached: once the source recovers the same
	// pairing earns its reward.
	source.err = nil
	require.NoError(t, svc.CalculateRewards(context.Background(), user))
	rewardList := user.Rewards()
	require.Len(t, rewardList, 1)
	assert.Equal(t, 75, rewardList[0].RewardPoints)
}

func TestProximityPredicates_IndependentThresholds(t *testing.T) {
	attraction := testAttraction("A", 0, 0)
	svc := newTestService(&stubCatalog{}, &countingSource{points: 1})

	atAttraction := models.Location{Latitude: 0, Longitude: 0}
	nearby := models.Location{Latitude: 0, Longitude: 1}    // ~69 miles
	farAway := models.Location{Latitude: 0, Longitude: 10}  // ~690 miles

	assert.True(t, svc.IsWithinAttractionProximity(attraction, atAttraction))
	assert.False(t, svc.IsWithinAttractionProximity(attraction, nearby))

	assert.True(t, svc.IsNearbyAttraction(attraction, atAttraction))
	assert.True(t, svc.IsNearbyAttraction(attraction, nearby))
	assert.False(t, svc.IsNearbyAttraction(attraction, farAway))
}

func TestGetNearestAttractions_OrderedByDistance(t *testing.T) {
	// Catalog deliberately out of distance order from the origin.
	far := testAttraction("far", 0, 30)
	near := testAttraction("near", 0, 1)
	middle := testAttraction("middle", 0, 10)
	catalog := &stubCatalog{attractions: []models.Attraction{far, near, middle}}
	svc := newTestService(catalog, &countingSource{points: 1})

	origin := models.Location{Latitude: 0, Longitude: 0}
	ranked, err := svc.GetNearestAttractions(context.Background(), origin, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "near", ranked[0].Attraction.Name)
	assert.Equal(t, "middle", ranked[1].Attraction.Name)
	assert.Equal(t, "far", ranked[2].Attraction.Name)
	assert.LessOrEqual(t, ranked[0].Distance, ranked[1].Distance)
	assert.LessOrEqual(t, ranked[1].Distance, ranked[2].Distance)
}

func TestGetNearestAttractions_LimitBeyondCatalogReturnsAll(t *testing.T) {
	catalog := &stubCatalog{attractions: []models.Attraction{
		testAttraction("a", 0, 1),
		testAttraction("b", 0, 2),
	}}
	svc := newTestService(catalog, &countingSource{points: 1})

	ranked, err := svc.GetNearestAttractions(context.Background(), models.Location{}, 10)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestGetNearestAttractions_DefaultLimit(t *testing.T) {
	attractions := make([]models.Attraction, 0, 8)
	for i := 0; i < 8; i++ {
		attractions = append(attractions, testAttraction(string(rune('a'+i)), 0, float64(i+1)))
	}
	catalog := &stubCatalog{attractions: attractions}
	svc := newTestService(catalog, &countingSource{points: 1})

	ranked, err := svc.GetNearestAttractions(context.Background(), models.Location{}, 0)
	require.NoError(t, err)
	assert.Len(t, ranked, 5)
}

func TestGetNearestAttractions_TiesKeepCatalogOrder(t *testing.T) {
	// Equidistant east and west of the origin.
	east := testAttraction("east", 0, 1)
	west := testAttraction("west", 0, -1)
	catalog := &stubCatalog{attractions: []models.Attraction{east, west}}
	svc := newTestService(catalog, &countingSource{points: 1})

	ranked, err := svc.GetNearestAttractions(context.Background(), models.Location{}, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "east", ranked[0].Attraction.Name)
	assert.Equal(t, "west", ranked[1].Attraction.Name)
}

func TestGetDistance_SymmetryAndZero(t *testing.T) {
	svc := newTestService(&stubCatalog{}, &countingSource{points: 1})
	a := models.Location{Latitude: 43.582767, Longitude: -110.821999}
	b := models.Location{Latitude: 35.141689, Longitude: -115.510399}

	assert.Equal(t, svc.GetDistance(a, b), svc.GetDistance(b, a))
	assert.Equal(t, 0.0, svc.GetDistance(a, a))
}
