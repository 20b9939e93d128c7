package repository

import (
	"context"

	"porter/internal/domain"
)

// CatalogRepository defines lookups against the rate catalog: cities,
// vehicle classes and per-(city, vehicle class) pricing records.
type CatalogRepository interface {
	// CityByName retrieves a city by name.
	CityByName(ctx context.Context, name string) (*domain.City, error)

	// ActiveVehicleClasses lists all active vehicle classes.
	ActiveVehicleClasses(ctx context.Context) ([]*domain.VehicleClass, error)

	// ActivePricing retrieves the active pricing record for the pair.
	// ErrNotFound if no active record exists.
	ActivePricing(ctx context.Context, city, vehicleClass string) (*domain.Pricing, error)
}
