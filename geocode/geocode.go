// Package geocode wraps the external geocoding capability behind a small
// interface so the pipeline and its tests never touch the Google Maps
// client directly.
package geocode

import (
	"context"
	"fmt"

	"apartment-hunter/models"
)

// Place is one nearby-place search result.
type Place struct {
	Name     string
	Rating   float64
	Location models.Coordinate
}

// RouteMetrics is the measured walking distance and duration from an origin
// to a single destination. A zero Value in either measurement means the
// provider could not compute a route.
type RouteMetrics struct {
	Distance models.Measurement
	Duration models.Measurement
}

// Provider is the external geocoding capability.
type Provider interface {
	// NearestPlaces returns up to limit places of the given category,
	// ordered by increasing distance from origin.
	NearestPlaces(ctx context.Context, origin models.Coordinate, category string, limit int) ([]Place, error)

	// DistanceMatrix returns one RouteMetrics per destination, in input
	// order, measured as walking routes from origin.
	DistanceMatrix(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]RouteMetrics, error)
}

// ProviderError wraps any upstream failure (network, quota, malformed
// response). It is propagated, not retried, by this package.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("geocode: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
