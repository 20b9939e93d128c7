package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleRouter resolves routes and localities through the Google Maps API.
type GoogleRouter struct {
	client *maps.Client
}

// NewGoogleRouter creates a new GoogleRouter with the given API key.
func NewGoogleRouter(apiKey string) (*GoogleRouter, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouter{client: client}, nil
}

// DistanceDuration returns the driving route between two coordinates.
func (r *GoogleRouter) DistanceDuration(ctx context.Context, originLat, originLng, destLat, destLng float64) (*Route, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", originLat, originLng),
		Destination: fmt.Sprintf("%f,%f", destLat, destLng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := r.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return &Route{
		DistanceKm:  float64(leg.Distance.Meters) / 1000.0,
		DurationMin: int(leg.Duration.Minutes()),
	}, nil
}

// CityForPoint resolves the city a coordinate falls in through reverse
// geocoding.
func (r *GoogleRouter) CityForPoint(ctx context.Context, lat, lng float64) (string, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	}

	results, err := r.client.ReverseGeocode(ctx, req)
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}

	for _, result := range results {
		for _, component := range result.AddressComponents {
			for _, t := range component.Types {
				if t == "locality" {
					return component.LongName, nil
				}
			}
		}
	}

	return "", nil
}

// Ensure GoogleRouter implements Router.
var _ Router = (*GoogleRouter)(nil)
