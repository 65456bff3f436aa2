package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// DrivingRoute is a road-network route between two points, as returned by
// the external routing service.
type DrivingRoute struct {
	// DistanceMeters is the driving distance along the route.
	DistanceMeters float64

	// DurationSeconds is the estimated driving time.
	DurationSeconds float64

	// Geometry is the provider's encoded polyline, passed through untouched.
	Geometry string
}

// GeoService wraps the external routing/geocoding provider.
// Failures surface as ExternalServiceError; callers on the pull endpoints
// map that to an upstream-failure response, everything else degrades.
type GeoService interface {
	// Route returns the driving route from one point to another.
	Route(ctx context.Context, from, to kernel.GeoPoint) (DrivingRoute, error)

	// Geocode resolves a free-text address to a coordinate.
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)

	// ReverseGeocode resolves a coordinate to a display address.
	ReverseGeocode(ctx context.Context, point kernel.GeoPoint) (string, error)
}
