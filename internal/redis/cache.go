package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles rate catalog caching in Redis. Pricing records
// change rarely but are read on every estimate, so a short TTL keeps
// the catalog tables off the hot path.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	PricingCacheTTL = 5 * time.Minute
	CityCacheTTL    = 5 * time.Minute
)

// Key prefixes
const (
	pricingCachePrefix = "cache:pricing:"
	cityCachePrefix    = "cache:city:"
)

// CachedPricing represents a cached pricing record.
type CachedPricing struct {
	City              string  `json:"city"`
	VehicleClass      string  `json:"vehicle_class"`
	BaseFare          float64 `json:"base_fare"`
	PerKmRate         float64 `json:"per_km_rate"`
	CommissionPercent float64 `json:"commission_percent"`
}

// CachedCity represents a cached city record.
type CachedCity struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// GetPricing retrieves a pricing record from cache. A nil result is a
// cache miss.
func (s *CacheStore) GetPricing(ctx context.Context, city, vehicleClass string) (*CachedPricing, error) {
	key := pricingCachePrefix + city + ":" + vehicleClass
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pricing CachedPricing
	if err := json.Unmarshal(data, &pricing); err != nil {
		return nil, err
	}
	return &pricing, nil
}

// SetPricing stores a pricing record in cache.
func (s *CacheStore) SetPricing(ctx context.Context, pricing *CachedPricing) error {
	key := pricingCachePrefix + pricing.City + ":" + pricing.VehicleClass
	data, err := json.Marshal(pricing)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, PricingCacheTTL).Err()
}

// InvalidatePricing removes a pricing record from cache.
func (s *CacheStore) InvalidatePricing(ctx context.Context, city, vehicleClass string) error {
	key := pricingCachePrefix + city + ":" + vehicleClass
	return s.client.Del(ctx, key).Err()
}

// GetCity retrieves a city record from cache. A nil result is a cache
// miss.
func (s *CacheStore) GetCity(ctx context.Context, name string) (*CachedCity, error) {
	key := cityCachePrefix + name
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var city CachedCity
	if err := json.Unmarshal(data, &city); err != nil {
		return nil, err
	}
	return &city, nil
}

// SetCity stores a city record in cache.
func (s *CacheStore) SetCity(ctx context.Context, city *CachedCity) error {
	key := cityCachePrefix + city.Name
	data, err := json.Marshal(city)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, CityCacheTTL).Err()
}
