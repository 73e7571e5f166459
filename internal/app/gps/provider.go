// Package gps defines the location collaborators the reward engine reads
// from: the fixed attraction catalog and the per-user location feed.
package gps

import (
	"context"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-tourguide/internal/app/models"
)

// Provider supplies user positions and the attraction catalog. The catalog is
// static for the lifetime of the process.
type Provider interface {
	// UserLocation reports where the user currently is. May be slow.
	UserLocation(ctx context.Context, userID uuid.UUID) (models.VisitedLocation, error)

	// Attractions lists the full attraction catalog.
	Attractions(ctx context.Context) ([]models.Attraction, error)
}
