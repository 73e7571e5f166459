package gps

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// Web-Mercator latitude limit, matching what real tracking devices report.
const maxSimulatedLatitude = 85.05112878

type catalogEntry struct {
	name      string
	city      string
	state     string
	latitude  float64
	longitude float64
}

var catalogSeed = []catalogEntry{
	{"Disneyland", "Anaheim", "CA", 33.817595, -117.922008},
	{"Jackson Hole", "Jackson Hole", "WY", 43.582767, -110.821999},
	{"Mojave National Preserve", "Kelso", "CA", 35.141689, -115.510399},
	{"Joshua Tree National Park", "Joshua Tree National Park", "CA", 33.881866, -115.90065},
	{"Buffalo National River", "St Joe", "AR", 35.985512, -92.757652},
	{"Hot Springs National Park", "Hot Springs", "AR", 34.52153, -93.042267},
	{"Kartchner Caverns State Park", "Benson", "AZ", 31.837551, -110.347382},
	{"Legend Valley", "Thornville", "OH", 39.937778, -82.40667},
	{"Flatiron Building", "New York City", "NY", 40.741112, -73.989723},
	{"Fallingwater", "Mill Run", "PA", 39.906113, -79.468056},
	{"Union Station", "Washington D.C.", "DC", 38.897095, -77.006332},
	{"Roger Dean Stadium", "Jupiter", "FL", 26.890959, -80.116577},
	{"Texas Memorial Stadium", "Austin", "TX", 30.283682, -97.732536},
	{"Bryce Canyon National Park", "Bryce Canyon City", "UT", 37.593048, -112.187332},
	{"McKinley Tower", "Anchorage", "AK", 61.218887, -149.877502},
	{"Golden Gate Bridge", "San Francisco", "CA", 37.819929, -122.478255},
	{"Statue of Liberty", "New York City", "NY", 40.689247, -74.044502},
	{"Mount Rushmore", "Keystone", "SD", 43.879102, -103.459067},
	{"Space Needle", "Seattle", "WA", 47.620506, -122.349277},
	{"Gateway Arch", "St Louis", "MO", 38.624691, -90.184776},
	{"Hoover Dam", "Boulder City", "NV", 36.016066, -114.737732},
	{"Niagara Falls", "Niagara Falls", "NY", 43.096217, -79.037739},
	{"Old Faithful", "Yellowstone National Park", "WY", 44.460479, -110.828138},
	{"Grand Canyon Village", "Grand Canyon", "AZ", 36.106965, -112.112997},
	{"Zoo Tampa at Lowry Park", "Tampa", "FL", 28.012804, -82.469269},
	{"Franklin Park Zoo", "Boston", "MA", 42.302601, -71.086731},
}

// Simulator is an in-memory Provider that serves a fixed attraction catalog
// and invents a random position for every location request. It stands in for
// the external GPS feed in tests and high-volume benchmarks.
type Simulator struct {
	attractions []models.Attraction
	latency     time.Duration
}

var _ Provider = (*Simulator)(nil)

// NewSimulator builds a simulator with the built-in catalog and no artificial
// latency.
func NewSimulator() *Simulator {
	attractions := make([]models.Attraction, 0, len(catalogSeed))
	for _, e := range catalogSeed {
		attractions = append(attractions, models.Attraction{
			ID:    uuid.New(),
			Name:  e.name,
			City:  e.city,
			State: e.state,
			Location: models.Location{
				Latitude:  e.latitude,
				Longitude: e.longitude,
			},
		})
	}
	return &Simulator{attractions: attractions}
}

// NewSimulatorWithLatency builds a simulator that delays every location
// request by d, to exercise the worker pool the way a real feed would.
func NewSimulatorWithLatency(d time.Duration) *Simulator {
	s := NewSimulator()
	s.latency = d
	return s
}

// UserLocation returns a random position stamped with the current time.
func (s *Simulator) UserLocation(ctx context.Context, userID uuid.UUID) (models.VisitedLocation, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.VisitedLocation{}, ctx.Err()
		case <-timer.C:
		}
	}
	return models.VisitedLocation{
		UserID:      userID,
		Location:    RandomLocation(),
		TimeVisited: time.Now(),
	}, nil
}

// Attractions returns the catalog. The slice is copied so callers cannot
// mutate the shared catalog.
func (s *Simulator) Attractions(_ context.Context) ([]models.Attraction, error) {
	out := make([]models.Attraction, len(s.attractions))
	copy(out, s.attractions)
	return out, nil
}

// RandomLocation picks a uniformly random coordinate within the simulated
// latitude band.
func RandomLocation() models.Location {
	return models.Location{
		Latitude:  -maxSimulatedLatitude + rand.Float64()*2*maxSimulatedLatitude,
		Longitude: -180 + rand.Float64()*360,
	}
}
