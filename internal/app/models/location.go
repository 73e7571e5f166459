package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Attraction is a named point of interest with fixed coordinates. The catalog
// of attractions is loaded once per process and treated as read-only.
type Attraction struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"attractionName"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Location Location  `json:"location"`
}

// VisitedLocation is one entry in a user's location history.
type VisitedLocation struct {
	UserID      uuid.UUID `json:"userId"`
	Location    Location  `json:"location"`
	TimeVisited time.Time `json:"timeVisited"`
}

// RankedAttraction pairs an attraction with its distance in statute miles from
// a query location.
type RankedAttraction struct {
	Attraction Attraction
	Distance   float64
}

// NearbyAttraction is the presentation view of one ranked attraction.
type NearbyAttraction struct {
	AttractionName string  `json:"attractionName"`
	Latitude       float64 `json:"attractionLatitude"`
	Longitude      float64 `json:"attractionLongitude"`
	Distance       float64 `json:"distance"`
	RewardPoints   int     `json:"rewardPoints"`
}

// NearbyAttractionsResponse bundles the user's position with the closest
// attractions to it.
type NearbyAttractionsResponse struct {
	UserLatitude       float64            `json:"userLatitude"`
	UserLongitude      float64            `json:"userLongitude"`
	NearestAttractions []NearbyAttraction `json:"nearestAttractions"`
}
