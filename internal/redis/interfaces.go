package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for carrier location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, carrierID string, lat, lng float64) error
	FindNearbyCarriers(ctx context.Context, lat, lng, radiusKm float64) ([]CarrierLocation, error)
	RemoveLocation(ctx context.Context, carrierID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDispatchLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseDispatchLock(ctx context.Context, bookingID string) error
}

// CacheStoreInterface defines the interface for rate catalog caching.
type CacheStoreInterface interface {
	GetPricing(ctx context.Context, city, vehicleClass string) (*CachedPricing, error)
	SetPricing(ctx context.Context, pricing *CachedPricing) error
	InvalidatePricing(ctx context.Context, city, vehicleClass string) error
	GetCity(ctx context.Context, name string) (*CachedCity, error)
	SetCity(ctx context.Context, city *CachedCity) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CacheStoreInterface    = (*CacheStore)(nil)
)
