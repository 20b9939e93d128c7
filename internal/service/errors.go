package service

import "errors"

var (
	// ErrInvalidRequesterID is returned when requester ID is empty.
	ErrInvalidRequesterID = errors.New("invalid requester id")

	// ErrInvalidCarrierID is returned when carrier ID is empty.
	ErrInvalidCarrierID = errors.New("invalid carrier id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidVehicleClass is returned when the vehicle class is empty
	// or not in the catalog.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrCityNotServiced is returned when the pickup point does not
	// resolve to an active serviced city.
	ErrCityNotServiced = errors.New("city not serviced")

	// ErrPricingMissing is returned when no active pricing exists for
	// the selected city and vehicle class.
	ErrPricingMissing = errors.New("pricing not configured for vehicle class")

	// ErrInvalidState is returned when the booking is not in a state
	// that permits the operation.
	ErrInvalidState = errors.New("operation not allowed in current booking state")

	// ErrBookingNotAvailable is returned when a carrier tries to accept
	// a booking that is already taken or otherwise not claimable.
	ErrBookingNotAvailable = errors.New("booking no longer available")

	// ErrNotAssignedCarrier is returned when a carrier acts on a booking
	// assigned to someone else.
	ErrNotAssignedCarrier = errors.New("carrier not assigned to this booking")

	// ErrCarrierOffline is returned when an offline carrier attempts an
	// operation that requires being online.
	ErrCarrierOffline = errors.New("carrier is offline")

	// ErrCarrierBusy is returned when a carrier with an active trip
	// attempts to take another booking.
	ErrCarrierBusy = errors.New("carrier already has an active trip")

	// ErrNoCarrierAvailable is returned when dispatch finds no eligible
	// carrier.
	ErrNoCarrierAvailable = errors.New("no carrier available")

	// ErrSignatureInvalid is returned when a payment callback signature
	// fails verification.
	ErrSignatureInvalid = errors.New("payment signature invalid")

	// ErrPaymentNotInitiated is returned when verification arrives for a
	// booking with no pending payment order.
	ErrPaymentNotInitiated = errors.New("payment not initiated")

	// ErrGatewayUnavailable is returned when the payment gateway cannot
	// be reached or rejects the request.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrUpstreamUnavailable is returned when the routing provider cannot
	// be reached or returns no usable route.
	ErrUpstreamUnavailable = errors.New("routing provider unavailable")

	// ErrInvalidStatus is returned when a status filter is empty or not a
	// known booking status.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrRefundFailed is returned when a cancellation cannot proceed
	// because the refund did not go through.
	ErrRefundFailed = errors.New("refund failed")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the
	// wallet balance.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrPayoutNotConfigured is returned when a withdrawal is requested
	// without bank details or identity verification in place.
	ErrPayoutNotConfigured = errors.New("payout details not configured")
)
