package repository

import (
	"context"
	"time"

	"porter/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
//
// AssignCarrier, StartTrip and Finalize are conditional atomic updates:
// the precondition is evaluated and the mutation applied in a single
// statement, and ErrConflict means the precondition did not hold at the
// instant of mutation. Multiple service instances may run concurrently,
// so these are the only safe way to resolve the assignment and
// settlement races.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetForRequester retrieves a booking scoped to its requester.
	GetForRequester(ctx context.Context, requesterID, id string) (*domain.Booking, error)

	// LatestForRequester retrieves the requester's most recently created
	// booking in the given status.
	LatestForRequester(ctx context.Context, requesterID string, status domain.BookingStatus) (*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// UpdateStatus updates only the status of a booking.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error

	// AssignCarrier atomically assigns a carrier to a CONFIRMED booking
	// with no carrier whose rejection set does not contain the carrier,
	// moving it to DRIVER_ASSIGNED. ErrConflict if the booking is not
	// claimable by this carrier.
	AssignCarrier(ctx context.Context, bookingID, carrierID string) error

	// AddRejectedCarrier adds a carrier to the booking's rejection set.
	AddRejectedCarrier(ctx context.Context, bookingID, carrierID string) error

	// StartTrip atomically moves a DRIVER_ASSIGNED booking of the given
	// carrier to TRIP_STARTED.
	StartTrip(ctx context.Context, bookingID, carrierID string, at time.Time) error

	// Finalize atomically moves a TRIP_STARTED booking of the assigned
	// carrier to TRIP_COMPLETED and records the final fare breakdown.
	// ErrConflict if the trip was already settled, which keeps a retried
	// completion from crediting the wallet twice.
	Finalize(ctx context.Context, booking *domain.Booking) error

	// PendingForCarrier lists CONFIRMED bookings of the carrier's vehicle
	// class that the carrier has not rejected, oldest first.
	PendingForCarrier(ctx context.Context, vehicleClass, carrierID string) ([]*domain.Booking, error)

	// ActiveForCarrier retrieves the carrier's booking in the given
	// status, or nil if there is none.
	ActiveForCarrier(ctx context.Context, carrierID string, status domain.BookingStatus) (*domain.Booking, error)

	// CompletedForCarrier lists the carrier's settled bookings, most
	// recent first.
	CompletedForCarrier(ctx context.Context, carrierID string) ([]*domain.Booking, error)

	// UpdateProgress records in-trip progress and the last reported
	// carrier location for a booking.
	UpdateProgress(ctx context.Context, bookingID string, remainingKm float64, etaMin int, last domain.Point) error

	// UpdateApproach records the carrier's pre-trip approach to the
	// pickup point and the last reported carrier location.
	UpdateApproach(ctx context.Context, bookingID string, approachKm float64, etaMin int, last domain.Point) error
}
