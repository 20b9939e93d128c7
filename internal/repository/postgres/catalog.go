package postgres

import (
	"context"
	"database/sql"
	"errors"

	"porter/internal/domain"
	"porter/internal/repository"
)

// CatalogRepository is a PostgreSQL implementation of repository.CatalogRepository.
type CatalogRepository struct {
	q Querier
}

// NewCatalogRepository creates a new PostgreSQL catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{q: db}
}

// CityByName retrieves a city by name.
func (r *CatalogRepository) CityByName(ctx context.Context, name string) (*domain.City, error) {
	query := `SELECT name, active FROM cities WHERE name = $1`

	var city domain.City
	err := r.q.QueryRowContext(ctx, query, name).Scan(&city.Name, &city.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &city, nil
}

// ActiveVehicleClasses lists all active vehicle classes.
func (r *CatalogRepository) ActiveVehicleClasses(ctx context.Context) ([]*domain.VehicleClass, error) {
	query := `SELECT name, active FROM vehicle_classes WHERE active = TRUE ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*domain.VehicleClass
	for rows.Next() {
		var class domain.VehicleClass
		if err := rows.Scan(&class.Name, &class.Active); err != nil {
			return nil, err
		}
		classes = append(classes, &class)
	}
	return classes, rows.Err()
}

// ActivePricing retrieves the active pricing record for the pair.
func (r *CatalogRepository) ActivePricing(ctx context.Context, city, vehicleClass string) (*domain.Pricing, error) {
	query := `
		SELECT id, city, vehicle_class, base_fare, per_km_rate, commission_percent, active
		FROM pricing
		WHERE city = $1 AND vehicle_class = $2 AND active = TRUE
	`

	var p domain.Pricing
	err := r.q.QueryRowContext(ctx, query, city, vehicleClass).Scan(
		&p.ID, &p.City, &p.VehicleClass,
		&p.BaseFare, &p.PerKmRate, &p.CommissionPercent, &p.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Ensure CatalogRepository implements repository.CatalogRepository.
var _ repository.CatalogRepository = (*CatalogRepository)(nil)
