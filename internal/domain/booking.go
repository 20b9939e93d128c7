package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	// Payment-first path.
	BookingStatusVehicleSelected  BookingStatus = "VEHICLE_SELECTED"
	BookingStatusPaymentPreview   BookingStatus = "PAYMENT_PREVIEW"
	BookingStatusPaymentInitiated BookingStatus = "PAYMENT_INITIATED"
	BookingStatusPaymentFailed    BookingStatus = "PAYMENT_FAILED"
	BookingStatusConfirmed        BookingStatus = "CONFIRMED"

	// Instant-dispatch path.
	BookingStatusSearchingDriver BookingStatus = "SEARCHING_DRIVER"
	BookingStatusDriverNotified  BookingStatus = "DRIVER_NOTIFIED"
	BookingStatusNoDriverFound   BookingStatus = "NO_DRIVER_FOUND"

	// Terminal status for claim-mode dispatch with no eligible carrier.
	BookingStatusDriverNotFound BookingStatus = "DRIVER_NOT_FOUND"

	BookingStatusDriverAssigned BookingStatus = "DRIVER_ASSIGNED"
	BookingStatusTripStarted    BookingStatus = "TRIP_STARTED"
	BookingStatusTripCompleted  BookingStatus = "TRIP_COMPLETED"
	BookingStatusCompleted      BookingStatus = "COMPLETED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

// TripType classifies a booking by route length.
type TripType string

const (
	TripTypeInCity     TripType = "IN_CITY"
	TripTypeOutstation TripType = "OUTSTATION"
)

// OutstationThresholdKm is the distance above which a trip is OUTSTATION.
const OutstationThresholdKm = 30.0

// PaymentMethod represents how a booking is paid.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCash   PaymentMethod = "CASH"
)

// PaymentStatus represents the state of a booking's payment.
type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "PENDING"
	PaymentStatusSuccess         PaymentStatus = "SUCCESS"
	PaymentStatusFailed          PaymentStatus = "FAILED"
	PaymentStatusRefundInitiated PaymentStatus = "REFUND_INITIATED"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// Booking is the central aggregate: one requested trip from vehicle
// selection through settlement. Distance, duration and all fare fields
// are computed server-side and never accepted from the client.
type Booking struct {
	ID          string
	RequesterID string
	CarrierID   string // empty until a carrier wins the claim race

	City         string
	VehicleClass string
	Pickup       Point
	Drop         Point
	DistanceKm   float64
	DurationMin  int
	TripType     TripType

	BaseFare           float64
	LoadingCharge      float64
	Discount           float64
	PickupCharge       float64
	PayableAmount      float64
	FinalFare          float64
	PlatformCommission float64
	CarrierEarning     float64

	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	OrderID          string
	PaymentID        string
	PaymentSignature string

	Status           BookingStatus
	RejectedCarriers []string

	// Carrier approach and in-trip progress, updated from location reports.
	CarrierToPickupKm     float64
	CarrierToPickupEtaMin int
	RemainingDistanceKm   float64
	DropEtaMin            int
	LastCarrierLocation   *Point

	CreatedAt       time.Time
	TripStartedAt   time.Time
	TripEndedAt     time.Time
	FareFinalizedAt time.Time
	CancelledAt     time.Time
}

// Cancellable reports whether a booking may still be cancelled by the
// requester. Once a trip has started the booking is non-cancellable.
func (b *Booking) Cancellable() bool {
	switch b.Status {
	case BookingStatusVehicleSelected,
		BookingStatusPaymentPreview,
		BookingStatusPaymentInitiated,
		BookingStatusConfirmed:
		return true
	default:
		return false
	}
}

// HasRejected reports whether the carrier previously declined this booking.
func (b *Booking) HasRejected(carrierID string) bool {
	for _, id := range b.RejectedCarriers {
		if id == carrierID {
			return true
		}
	}
	return false
}
