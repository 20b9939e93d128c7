package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"porter/internal/domain"
	"porter/internal/repository"
)

// CarrierRepository is a PostgreSQL implementation of repository.CarrierRepository.
type CarrierRepository struct {
	q Querier
}

// NewCarrierRepository creates a new PostgreSQL carrier repository.
func NewCarrierRepository(db *sql.DB) *CarrierRepository {
	return &CarrierRepository{q: db}
}

// NewCarrierRepositoryWithTx creates a carrier repository using a transaction.
func NewCarrierRepositoryWithTx(tx *sql.Tx) *CarrierRepository {
	return &CarrierRepository{q: tx}
}

const carrierColumns = `
	id, name, mobile, vehicle_class, vehicle_number,
	online, available, on_trip, lat, lng`

func scanCarrier(row rowScanner) (*domain.Carrier, error) {
	var c domain.Carrier
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Mobile,
		&c.VehicleClass,
		&c.VehicleNumber,
		&c.Online,
		&c.Available,
		&c.OnTrip,
		&lat,
		&lng,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		c.Location = &domain.Point{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &c, nil
}

// Create adds a new carrier.
func (r *CarrierRepository) Create(ctx context.Context, c *domain.Carrier) error {
	query := `
		INSERT INTO carriers (` + carrierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var lat, lng sql.NullFloat64
	if c.Location != nil {
		lat = sql.NullFloat64{Float64: c.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: c.Location.Lng, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.Name, c.Mobile, c.VehicleClass, c.VehicleNumber,
		c.Online, c.Available, c.OnTrip, lat, lng,
	)
	return err
}

// GetByID retrieves a carrier by ID.
func (r *CarrierRepository) GetByID(ctx context.Context, id string) (*domain.Carrier, error) {
	query := `SELECT ` + carrierColumns + ` FROM carriers WHERE id = $1`

	carrier, err := scanCarrier(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return carrier, nil
}

// SetOnline updates the online flag. Going online restores availability,
// going offline clears it.
func (r *CarrierRepository) SetOnline(ctx context.Context, id string, online bool) error {
	query := `UPDATE carriers SET online = $2, available = $2 AND NOT on_trip WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, online)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetEngagement updates the available/on-trip pair in one statement.
func (r *CarrierRepository) SetEngagement(ctx context.Context, id string, available, onTrip bool) error {
	query := `UPDATE carriers SET available = $2, on_trip = $3 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, available, onTrip)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateLocation stores the carrier's current location.
func (r *CarrierRepository) UpdateLocation(ctx context.Context, id string, loc domain.Point) error {
	query := `UPDATE carriers SET lat = $2, lng = $3 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, loc.Lat, loc.Lng)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ListEligible lists carriers that are online, available, not on-trip,
// of the given vehicle class and not in the excluded set.
func (r *CarrierRepository) ListEligible(ctx context.Context, vehicleClass string, excluded []string) ([]*domain.Carrier, error) {
	query := `
		SELECT ` + carrierColumns + `
		FROM carriers
		WHERE online = TRUE
		  AND available = TRUE
		  AND on_trip = FALSE
		  AND vehicle_class = $1
		  AND NOT (id = ANY($2))
	`

	if excluded == nil {
		excluded = []string{}
	}

	rows, err := r.q.QueryContext(ctx, query, vehicleClass, pq.Array(excluded))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carriers []*domain.Carrier
	for rows.Next() {
		carrier, err := scanCarrier(rows)
		if err != nil {
			return nil, err
		}
		carriers = append(carriers, carrier)
	}
	return carriers, rows.Err()
}

// Ensure CarrierRepository implements repository.CarrierRepository.
var _ repository.CarrierRepository = (*CarrierRepository)(nil)
