package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"porter/internal/domain"
	"porter/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, requester_id, carrier_id, city, vehicle_class,
	pickup_lat, pickup_lng, drop_lat, drop_lng,
	distance_km, duration_min, trip_type,
	base_fare, loading_charge, discount, pickup_charge, payable_amount,
	final_fare, platform_commission, carrier_earning,
	payment_method, payment_status, order_id, payment_id, payment_signature,
	status, rejected_carriers,
	carrier_to_pickup_km, carrier_to_pickup_eta_min,
	remaining_distance_km, drop_eta_min, last_lat, last_lng,
	created_at, trip_started_at, trip_ended_at, fare_finalized_at, cancelled_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var carrierID, paymentMethod, orderID, paymentID, signature sql.NullString
	var lastLat, lastLng sql.NullFloat64
	var tripStartedAt, tripEndedAt, fareFinalizedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.RequesterID,
		&carrierID,
		&b.City,
		&b.VehicleClass,
		&b.Pickup.Lat,
		&b.Pickup.Lng,
		&b.Drop.Lat,
		&b.Drop.Lng,
		&b.DistanceKm,
		&b.DurationMin,
		&b.TripType,
		&b.BaseFare,
		&b.LoadingCharge,
		&b.Discount,
		&b.PickupCharge,
		&b.PayableAmount,
		&b.FinalFare,
		&b.PlatformCommission,
		&b.CarrierEarning,
		&paymentMethod,
		&b.PaymentStatus,
		&orderID,
		&paymentID,
		&signature,
		&b.Status,
		pq.Array(&b.RejectedCarriers),
		&b.CarrierToPickupKm,
		&b.CarrierToPickupEtaMin,
		&b.RemainingDistanceKm,
		&b.DropEtaMin,
		&lastLat,
		&lastLng,
		&b.CreatedAt,
		&tripStartedAt,
		&tripEndedAt,
		&fareFinalizedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if carrierID.Valid {
		b.CarrierID = carrierID.String
	}
	if paymentMethod.Valid {
		b.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
	}
	if orderID.Valid {
		b.OrderID = orderID.String
	}
	if paymentID.Valid {
		b.PaymentID = paymentID.String
	}
	if signature.Valid {
		b.PaymentSignature = signature.String
	}
	if lastLat.Valid && lastLng.Valid {
		b.LastCarrierLocation = &domain.Point{Lat: lastLat.Float64, Lng: lastLng.Float64}
	}
	if tripStartedAt.Valid {
		b.TripStartedAt = tripStartedAt.Time
	}
	if tripEndedAt.Valid {
		b.TripEndedAt = tripEndedAt.Time
	}
	if fareFinalizedAt.Valid {
		b.FareFinalizedAt = fareFinalizedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = cancelledAt.Time
	}

	return &b, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34, $35, $36, $37, $38)
	`

	rejected := b.RejectedCarriers
	if rejected == nil {
		rejected = []string{}
	}

	var lastLat, lastLng sql.NullFloat64
	if b.LastCarrierLocation != nil {
		lastLat = sql.NullFloat64{Float64: b.LastCarrierLocation.Lat, Valid: true}
		lastLng = sql.NullFloat64{Float64: b.LastCarrierLocation.Lng, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		b.ID,
		b.RequesterID,
		nullString(b.CarrierID),
		b.City,
		b.VehicleClass,
		b.Pickup.Lat,
		b.Pickup.Lng,
		b.Drop.Lat,
		b.Drop.Lng,
		b.DistanceKm,
		b.DurationMin,
		b.TripType,
		b.BaseFare,
		b.LoadingCharge,
		b.Discount,
		b.PickupCharge,
		b.PayableAmount,
		b.FinalFare,
		b.PlatformCommission,
		b.CarrierEarning,
		nullString(string(b.PaymentMethod)),
		b.PaymentStatus,
		nullString(b.OrderID),
		nullString(b.PaymentID),
		nullString(b.PaymentSignature),
		b.Status,
		pq.Array(rejected),
		b.CarrierToPickupKm,
		b.CarrierToPickupEtaMin,
		b.RemainingDistanceKm,
		b.DropEtaMin,
		lastLat,
		lastLng,
		b.CreatedAt,
		nullTime(b.TripStartedAt),
		nullTime(b.TripEndedAt),
		nullTime(b.FareFinalizedAt),
		nullTime(b.CancelledAt),
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetForRequester retrieves a booking scoped to its requester.
func (r *BookingRepository) GetForRequester(ctx context.Context, requesterID, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND requester_id = $2`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id, requesterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// LatestForRequester retrieves the requester's most recently created
// booking in the given status.
func (r *BookingRepository) LatestForRequester(ctx context.Context, requesterID string, status domain.BookingStatus) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE requester_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, requesterID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings SET
			carrier_id = $2, city = $3, vehicle_class = $4,
			pickup_lat = $5, pickup_lng = $6, drop_lat = $7, drop_lng = $8,
			distance_km = $9, duration_min = $10, trip_type = $11,
			base_fare = $12, loading_charge = $13, discount = $14,
			pickup_charge = $15, payable_amount = $16,
			final_fare = $17, platform_commission = $18, carrier_earning = $19,
			payment_method = $20, payment_status = $21,
			order_id = $22, payment_id = $23, payment_signature = $24,
			status = $25, rejected_carriers = $26,
			carrier_to_pickup_km = $27, carrier_to_pickup_eta_min = $28,
			remaining_distance_km = $29, drop_eta_min = $30,
			trip_started_at = $31, trip_ended_at = $32,
			fare_finalized_at = $33, cancelled_at = $34
		WHERE id = $1
	`

	rejected := b.RejectedCarriers
	if rejected == nil {
		rejected = []string{}
	}

	result, err := r.q.ExecContext(ctx, query,
		b.ID,
		nullString(b.CarrierID),
		b.City,
		b.VehicleClass,
		b.Pickup.Lat,
		b.Pickup.Lng,
		b.Drop.Lat,
		b.Drop.Lng,
		b.DistanceKm,
		b.DurationMin,
		b.TripType,
		b.BaseFare,
		b.LoadingCharge,
		b.Discount,
		b.PickupCharge,
		b.PayableAmount,
		b.FinalFare,
		b.PlatformCommission,
		b.CarrierEarning,
		nullString(string(b.PaymentMethod)),
		b.PaymentStatus,
		nullString(b.OrderID),
		nullString(b.PaymentID),
		nullString(b.PaymentSignature),
		b.Status,
		pq.Array(rejected),
		b.CarrierToPickupKm,
		b.CarrierToPickupEtaMin,
		b.RemainingDistanceKm,
		b.DropEtaMin,
		nullTime(b.TripStartedAt),
		nullTime(b.TripEndedAt),
		nullTime(b.FareFinalizedAt),
		nullTime(b.CancelledAt),
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// UpdateStatus updates only the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// AssignCarrier atomically claims a CONFIRMED, unassigned booking for a
// carrier that has not rejected it. Exactly one of N racing carriers
// can match the WHERE clause.
func (r *BookingRepository) AssignCarrier(ctx context.Context, bookingID, carrierID string) error {
	query := `
		UPDATE bookings
		SET carrier_id = $2, status = $3
		WHERE id = $1
		  AND status = $4
		  AND carrier_id IS NULL
		  AND NOT ($2 = ANY(rejected_carriers))
	`

	result, err := r.q.ExecContext(ctx, query,
		bookingID, carrierID,
		domain.BookingStatusDriverAssigned,
		domain.BookingStatusConfirmed,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrConflict
	}
	return nil
}

// AddRejectedCarrier adds a carrier to the booking's rejection set.
func (r *BookingRepository) AddRejectedCarrier(ctx context.Context, bookingID, carrierID string) error {
	query := `
		UPDATE bookings
		SET rejected_carriers = array_append(rejected_carriers, $2)
		WHERE id = $1 AND NOT ($2 = ANY(rejected_carriers))
	`

	// Zero rows means either an unknown booking or an already-recorded
	// rejection; the latter is fine, so check existence separately.
	result, err := r.q.ExecContext(ctx, query, bookingID, carrierID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return err
		}
	}
	return nil
}

// StartTrip atomically moves a DRIVER_ASSIGNED booking of the given
// carrier to TRIP_STARTED.
func (r *BookingRepository) StartTrip(ctx context.Context, bookingID, carrierID string, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $3, trip_started_at = $4
		WHERE id = $1 AND carrier_id = $2 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		bookingID, carrierID,
		domain.BookingStatusTripStarted, at,
		domain.BookingStatusDriverAssigned,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrConflict
	}
	return nil
}

// Finalize atomically settles a TRIP_STARTED booking of the assigned
// carrier: status, final fare breakdown and timestamps in one statement.
// A second completion attempt finds no TRIP_STARTED row and conflicts.
func (r *BookingRepository) Finalize(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $3,
		    distance_km = $4, duration_min = $5,
		    final_fare = $6, platform_commission = $7, carrier_earning = $8,
		    trip_ended_at = $9, fare_finalized_at = $10
		WHERE id = $1 AND carrier_id = $2 AND status = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		b.ID, b.CarrierID,
		domain.BookingStatusTripCompleted,
		b.DistanceKm, b.DurationMin,
		b.FinalFare, b.PlatformCommission, b.CarrierEarning,
		b.TripEndedAt, b.FareFinalizedAt,
		domain.BookingStatusTripStarted,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrConflict
	}
	return nil
}

// PendingForCarrier lists CONFIRMED bookings of the carrier's vehicle
// class that the carrier has not rejected, oldest first.
func (r *BookingRepository) PendingForCarrier(ctx context.Context, vehicleClass, carrierID string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		  AND vehicle_class = $2
		  AND carrier_id IS NULL
		  AND NOT ($3 = ANY(rejected_carriers))
		ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, domain.BookingStatusConfirmed, vehicleClass, carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ActiveForCarrier retrieves the carrier's booking in the given status,
// or nil if there is none.
func (r *BookingRepository) ActiveForCarrier(ctx context.Context, carrierID string, status domain.BookingStatus) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE carrier_id = $1 AND status = $2
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, carrierID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// CompletedForCarrier lists the carrier's settled bookings, most recent
// first. Settled means the fare was finalized, regardless of whether the
// booking has been closed out since.
func (r *BookingRepository) CompletedForCarrier(ctx context.Context, carrierID string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE carrier_id = $1 AND fare_finalized_at IS NOT NULL
		ORDER BY trip_ended_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateProgress records in-trip progress and the last reported carrier
// location. Lost updates between successive reports are harmless.
func (r *BookingRepository) UpdateProgress(ctx context.Context, bookingID string, remainingKm float64, etaMin int, last domain.Point) error {
	query := `
		UPDATE bookings
		SET remaining_distance_km = $2, drop_eta_min = $3, last_lat = $4, last_lng = $5
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, bookingID, remainingKm, etaMin, last.Lat, last.Lng)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateApproach records the carrier's approach to the pickup before
// the trip starts.
func (r *BookingRepository) UpdateApproach(ctx context.Context, bookingID string, approachKm float64, etaMin int, last domain.Point) error {
	query := `
		UPDATE bookings
		SET carrier_to_pickup_km = $2, carrier_to_pickup_eta_min = $3, last_lat = $4, last_lng = $5
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, bookingID, approachKm, etaMin, last.Lat, last.Lng)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func collectBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
