// Package geo holds the pure great-circle math shared by the reward matcher
// and the nearest-attraction ranker.
package geo

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// Distances are returned in statute miles throughout the engine.
const statuteMilesPerNauticalMile = 1.15077945

// Distance computes the great-circle distance between two locations in
// statute miles, via the spherical law of cosines. Identical points return
// exactly 0; the acos argument is clamped so near-antipodal rounding can
// never produce NaN.
func Distance(a, b models.Location) float64 {
	if a == b {
		return 0
	}

	lat1 := degreesToRadians(a.Latitude)
	lon1 := degreesToRadians(a.Longitude)
	lat2 := degreesToRadians(b.Latitude)
	lon2 := degreesToRadians(b.Longitude)

	cosAngle := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)
	angle := math.Acos(math.Min(1, math.Max(-1, cosAngle)))

	nauticalMiles := 60 * radiansToDegrees(angle)
	return statuteMilesPerNauticalMile * nauticalMiles
}

// NewLocation validates latitude/longitude at construction time so the
// distance math never sees an out-of-range coordinate.
func NewLocation(latitude, longitude float64) (models.Location, error) {
	loc := models.Location{Latitude: latitude, Longitude: longitude}
	if err := ValidateLocation(loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// ValidateLocation checks that a location's latitude is within [-90, 90] and
// its longitude within [-180, 180].
func ValidateLocation(loc models.Location) error {
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", models.ErrInvalidCoordinate, loc.Latitude)
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", models.ErrInvalidCoordinate, loc.Longitude)
	}
	return nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
