package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const carrierLocationKey = "carriers:locations"

// CarrierLocation represents a carrier's position.
type CarrierLocation struct {
	CarrierID string
	Lat       float64
	Lng       float64
}

// LocationStore handles carrier location operations in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a carrier's location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, carrierID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, carrierLocationKey, &redis.GeoLocation{
		Name:      carrierID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyCarriers returns carriers within the given radius (in
// kilometers), nearest first.
func (s *LocationStore) FindNearbyCarriers(ctx context.Context, lat, lng, radiusKm float64) ([]CarrierLocation, error) {
	results, err := s.client.GeoRadius(ctx, carrierLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]CarrierLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, CarrierLocation{
			CarrierID: r.Name,
			Lat:       r.Latitude,
			Lng:       r.Longitude,
		})
	}

	return locations, nil
}

// RemoveLocation removes a carrier's location from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, carrierID string) error {
	return s.client.ZRem(ctx, carrierLocationKey, carrierID).Err()
}
