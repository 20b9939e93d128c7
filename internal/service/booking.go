package service

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"porter/internal/domain"
	"porter/internal/gateway"
	"porter/internal/repository"
	"porter/internal/routing"
)

// BookingService handles the requester side of a booking: route checks,
// estimates, vehicle selection, payment preview and cancellation.
type BookingService struct {
	bookingRepo repository.BookingRepository
	catalog     *CatalogService
	router      routing.Router
	dispatch    *DispatchService
	gw          gateway.Gateway
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	catalog *CatalogService,
	router routing.Router,
	dispatch *DispatchService,
	gw gateway.Gateway,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		router:      router,
		dispatch:    dispatch,
		gw:          gw,
	}
}

func validPoint(p domain.Point) bool {
	if p.Lat < -90 || p.Lat > 90 {
		return false
	}
	if p.Lng < -180 || p.Lng > 180 {
		return false
	}
	return true
}

// resolveRoute computes the road route between pickup and drop and the
// serviced city of the pickup point. The city must exist and be active.
func (s *BookingService) resolveRoute(ctx context.Context, pickup, drop domain.Point) (*routing.Route, string, error) {
	route, err := s.router.DistanceDuration(ctx, pickup.Lat, pickup.Lng, drop.Lat, drop.Lng)
	if err != nil {
		log.Printf("[booking] routing failed: %v", err)
		return nil, "", ErrUpstreamUnavailable
	}

	cityName, err := s.router.CityForPoint(ctx, pickup.Lat, pickup.Lng)
	if err != nil {
		log.Printf("[booking] reverse geocode failed: %v", err)
		return nil, "", ErrUpstreamUnavailable
	}
	if cityName == "" {
		return nil, "", ErrCityNotServiced
	}

	city, err := s.catalog.City(ctx, cityName)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, "", ErrCityNotServiced
		}
		return nil, "", err
	}
	if !city.Active {
		return nil, "", ErrCityNotServiced
	}

	return route, city.Name, nil
}

// RouteCheckRequest contains the parameters for a serviceability check.
type RouteCheckRequest struct {
	Pickup domain.Point
	Drop   domain.Point
}

// RouteCheckResponse describes the route and the serviced city.
type RouteCheckResponse struct {
	City        string
	DistanceKm  float64
	DurationMin int
	TripType    domain.TripType
}

// RouteCheck verifies both points resolve to a drivable route inside an
// active serviced city.
func (s *BookingService) RouteCheck(ctx context.Context, req RouteCheckRequest) (*RouteCheckResponse, error) {
	if !validPoint(req.Pickup) || !validPoint(req.Drop) {
		return nil, ErrInvalidLocation
	}

	route, city, err := s.resolveRoute(ctx, req.Pickup, req.Drop)
	if err != nil {
		return nil, err
	}

	return &RouteCheckResponse{
		City:        city,
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		TripType:    TripTypeFor(route.DistanceKm),
	}, nil
}

// ClassEstimate is the quoted fare for one vehicle class. Fare is nil
// when the class has no active pricing in the city.
type ClassEstimate struct {
	VehicleClass string
	Fare         *float64
}

// EstimateRequest contains the parameters for a fare estimate.
type EstimateRequest struct {
	Pickup domain.Point
	Drop   domain.Point
}

// EstimateResponse quotes every active vehicle class for the route.
type EstimateResponse struct {
	City        string
	DistanceKm  float64
	DurationMin int
	TripType    domain.TripType
	Estimates   []ClassEstimate
}

// Estimate quotes the route for every active vehicle class. Classes
// without pricing in the resolved city appear with a nil fare so the
// client can show them as unavailable.
func (s *BookingService) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	if !validPoint(req.Pickup) || !validPoint(req.Drop) {
		return nil, ErrInvalidLocation
	}

	route, city, err := s.resolveRoute(ctx, req.Pickup, req.Drop)
	if err != nil {
		return nil, err
	}

	classes, err := s.catalog.VehicleClasses(ctx)
	if err != nil {
		return nil, err
	}

	estimates := make([]ClassEstimate, 0, len(classes))
	for _, class := range classes {
		estimate := ClassEstimate{VehicleClass: class.Name}

		pricing, err := s.catalog.Pricing(ctx, city, class.Name)
		if err == nil {
			fare := EstimatedFare(pricing.BaseFare, pricing.PerKmRate, route.DistanceKm)
			estimate.Fare = &fare
		} else if err != ErrPricingMissing {
			return nil, err
		}

		estimates = append(estimates, estimate)
	}

	return &EstimateResponse{
		City:        city,
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		TripType:    TripTypeFor(route.DistanceKm),
		Estimates:   estimates,
	}, nil
}

// SelectVehicleRequest contains the parameters for locking a vehicle
// class into a new booking.
type SelectVehicleRequest struct {
	RequesterID  string
	Pickup       domain.Point
	Drop         domain.Point
	VehicleClass string
	LabourCount  int
}

// SelectVehicle creates a booking in VEHICLE_SELECTED holding the rate
// card's base fare for the chosen class. The distance component is not
// part of the snapshot; it is added when the trip completes.
func (s *BookingService) SelectVehicle(ctx context.Context, req SelectVehicleRequest) (*domain.Booking, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.VehicleClass == "" {
		return nil, ErrInvalidVehicleClass
	}
	if !validPoint(req.Pickup) || !validPoint(req.Drop) {
		return nil, ErrInvalidLocation
	}

	route, city, err := s.resolveRoute(ctx, req.Pickup, req.Drop)
	if err != nil {
		return nil, err
	}

	pricing, err := s.catalog.Pricing(ctx, city, req.VehicleClass)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		RequesterID:   req.RequesterID,
		City:          city,
		VehicleClass:  req.VehicleClass,
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		DistanceKm:    route.DistanceKm,
		DurationMin:   route.DurationMin,
		TripType:      TripTypeFor(route.DistanceKm),
		BaseFare:      pricing.BaseFare,
		LoadingCharge: LoadingCharge(req.LabourCount),
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.BookingStatusVehicleSelected,
		CreatedAt:     time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// PaymentPreviewRequest contains the parameters for a payment preview.
type PaymentPreviewRequest struct {
	RequesterID string
	BookingID   string
	Discount    float64
}

// PaymentPreview fixes the payable amount and moves the booking to
// PAYMENT_PREVIEW. Re-previewing an un-initiated booking recomputes the
// amount with the new discount.
func (s *BookingService) PaymentPreview(ctx context.Context, req PaymentPreviewRequest) (*domain.Booking, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Discount < 0 {
		return nil, ErrInvalidAmount
	}

	booking, err := s.bookingRepo.GetForRequester(ctx, req.RequesterID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusVehicleSelected &&
		booking.Status != domain.BookingStatusPaymentPreview {
		return nil, ErrInvalidState
	}

	booking.Discount = req.Discount
	booking.PayableAmount = PayableAmount(booking.BaseFare, booking.LoadingCharge, booking.Discount)
	booking.Status = domain.BookingStatusPaymentPreview

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// RequestInstantRequest contains the parameters for an instant booking.
type RequestInstantRequest struct {
	RequesterID  string
	Pickup       domain.Point
	Drop         domain.Point
	VehicleClass string
	LabourCount  int
}

// RequestInstant creates a cash booking and immediately pushes it to
// nearby carriers. The returned booking is DRIVER_NOTIFIED when at
// least one carrier was reachable and NO_DRIVER_FOUND otherwise.
func (s *BookingService) RequestInstant(ctx context.Context, req RequestInstantRequest) (*domain.Booking, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.VehicleClass == "" {
		return nil, ErrInvalidVehicleClass
	}
	if !validPoint(req.Pickup) || !validPoint(req.Drop) {
		return nil, ErrInvalidLocation
	}

	route, city, err := s.resolveRoute(ctx, req.Pickup, req.Drop)
	if err != nil {
		return nil, err
	}

	pricing, err := s.catalog.Pricing(ctx, city, req.VehicleClass)
	if err != nil {
		return nil, err
	}

	loading := LoadingCharge(req.LabourCount)

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		RequesterID:   req.RequesterID,
		City:          city,
		VehicleClass:  req.VehicleClass,
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		DistanceKm:    route.DistanceKm,
		DurationMin:   route.DurationMin,
		TripType:      TripTypeFor(route.DistanceKm),
		BaseFare:      pricing.BaseFare,
		LoadingCharge: loading,
		PayableAmount: PayableAmount(pricing.BaseFare, loading, 0),
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.BookingStatusSearchingDriver,
		CreatedAt:     time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.dispatch.Push(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking scoped to its requester.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID string) (*domain.Booking, error) {
	if requesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	return s.bookingRepo.GetForRequester(ctx, requesterID, bookingID)
}

// Latest retrieves the requester's most recent booking in the given
// status, for clients resuming an in-progress flow.
func (s *BookingService) Latest(ctx context.Context, requesterID string, status domain.BookingStatus) (*domain.Booking, error) {
	if requesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if status == "" {
		return nil, ErrInvalidStatus
	}

	return s.bookingRepo.LatestForRequester(ctx, requesterID, status)
}

// GetStatus retrieves only the status of a requester's booking.
func (s *BookingService) GetStatus(ctx context.Context, requesterID, bookingID string) (domain.BookingStatus, error) {
	booking, err := s.GetBooking(ctx, requesterID, bookingID)
	if err != nil {
		return "", err
	}
	return booking.Status, nil
}

// CarrierLocationResponse is the live position of the assigned carrier
// relative to the trip.
type CarrierLocationResponse struct {
	Location            *domain.Point
	ApproachKm          float64
	ApproachEtaMin      int
	RemainingDistanceKm float64
	DropEtaMin          int
}

// CarrierLocation reports the assigned carrier's last known position
// and trip progress for a requester's booking.
func (s *BookingService) CarrierLocation(ctx context.Context, requesterID, bookingID string) (*CarrierLocationResponse, error) {
	booking, err := s.GetBooking(ctx, requesterID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CarrierID == "" {
		return nil, ErrInvalidState
	}

	return &CarrierLocationResponse{
		Location:            booking.LastCarrierLocation,
		ApproachKm:          booking.CarrierToPickupKm,
		ApproachEtaMin:      booking.CarrierToPickupEtaMin,
		RemainingDistanceKm: booking.RemainingDistanceKm,
		DropEtaMin:          booking.DropEtaMin,
	}, nil
}

// Cancel cancels a requester's booking. A successful online payment is
// refunded first; if the refund fails the booking keeps its state so a
// retry can run the refund again.
func (s *BookingService) Cancel(ctx context.Context, requesterID, bookingID string) (*domain.Booking, error) {
	if requesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetForRequester(ctx, requesterID, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Cancellable() {
		return nil, ErrInvalidState
	}

	// Refund before any state change. Failing closed here means a
	// gateway outage never leaves a cancelled booking holding funds.
	if booking.PaymentMethod == domain.PaymentMethodOnline &&
		booking.PaymentStatus == domain.PaymentStatusSuccess {
		amountMinor := int64(math.Round(booking.PayableAmount * 100))
		if err := s.gw.Refund(ctx, booking.PaymentID, amountMinor); err != nil {
			return nil, ErrRefundFailed
		}
		booking.PaymentStatus = domain.PaymentStatusRefundInitiated
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = time.Now()

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}
