package routing

import (
	"context"
	"errors"
)

// Route is the travel estimate between two points by road.
type Route struct {
	DistanceKm  float64
	DurationMin int
}

// ErrNoRoute is returned when no drivable route connects the points.
var ErrNoRoute = errors.New("no route found")

// Router resolves road routes and the serviceable locality of a point.
type Router interface {
	// DistanceDuration returns the driving route between two coordinates.
	DistanceDuration(ctx context.Context, originLat, originLng, destLat, destLng float64) (*Route, error)

	// CityForPoint resolves the city a coordinate falls in. Empty string
	// if the locality cannot be determined.
	CityForPoint(ctx context.Context, lat, lng float64) (string, error)
}
