package service

import (
	"context"
	"errors"

	"porter/internal/domain"
	"porter/internal/redis"
	"porter/internal/repository"
)

// CatalogService serves the rate catalog with a Redis read-through
// cache. The cacheStore may be nil, in which case every lookup hits the
// database.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	cacheStore  redis.CacheStoreInterface
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository, cacheStore redis.CacheStoreInterface) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cacheStore:  cacheStore,
	}
}

// City retrieves a city by name.
func (s *CatalogService) City(ctx context.Context, name string) (*domain.City, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetCity(ctx, name)
		if err == nil && cached != nil {
			return &domain.City{Name: cached.Name, Active: cached.Active}, nil
		}
	}

	city, err := s.catalogRepo.CityByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetCity(ctx, &redis.CachedCity{Name: city.Name, Active: city.Active})
	}

	return city, nil
}

// VehicleClasses lists all active vehicle classes.
func (s *CatalogService) VehicleClasses(ctx context.Context) ([]*domain.VehicleClass, error) {
	return s.catalogRepo.ActiveVehicleClasses(ctx)
}

// Pricing retrieves the active pricing for a (city, vehicle class) pair.
// ErrPricingMissing if no active record exists.
func (s *CatalogService) Pricing(ctx context.Context, city, vehicleClass string) (*domain.Pricing, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetPricing(ctx, city, vehicleClass)
		if err == nil && cached != nil {
			return &domain.Pricing{
				City:              cached.City,
				VehicleClass:      cached.VehicleClass,
				BaseFare:          cached.BaseFare,
				PerKmRate:         cached.PerKmRate,
				CommissionPercent: cached.CommissionPercent,
				Active:            true,
			}, nil
		}
	}

	pricing, err := s.catalogRepo.ActivePricing(ctx, city, vehicleClass)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPricingMissing
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetPricing(ctx, &redis.CachedPricing{
			City:              pricing.City,
			VehicleClass:      pricing.VehicleClass,
			BaseFare:          pricing.BaseFare,
			PerKmRate:         pricing.PerKmRate,
			CommissionPercent: pricing.CommissionPercent,
		})
	}

	return pricing, nil
}
