package repository

import (
	"context"

	"porter/internal/domain"
)

// CarrierRepository defines the persistence operations for carriers.
type CarrierRepository interface {
	// Create adds a new carrier.
	Create(ctx context.Context, carrier *domain.Carrier) error

	// GetByID retrieves a carrier by ID.
	GetByID(ctx context.Context, id string) (*domain.Carrier, error)

	// SetOnline updates the online flag; going online also restores
	// availability, going offline clears it.
	SetOnline(ctx context.Context, id string, online bool) error

	// SetEngagement updates the available/on-trip pair in one statement.
	SetEngagement(ctx context.Context, id string, available, onTrip bool) error

	// UpdateLocation stores the carrier's current location.
	UpdateLocation(ctx context.Context, id string, loc domain.Point) error

	// ListEligible lists carriers that are online, available, not
	// on-trip, of the given vehicle class and not in the excluded set.
	ListEligible(ctx context.Context, vehicleClass string, excluded []string) ([]*domain.Carrier, error)
}
