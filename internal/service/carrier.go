package service

import (
	"context"
	"log"
	"time"

	"porter/internal/domain"
	"porter/internal/redis"
	"porter/internal/relay"
	"porter/internal/repository"
	"porter/internal/routing"
)

// CarrierService handles the carrier side of a booking: presence,
// location reports, the accept/reject race, trip lifecycle and
// earnings.
type CarrierService struct {
	carrierRepo   repository.CarrierRepository
	bookingRepo   repository.BookingRepository
	walletRepo    repository.WalletRepository
	catalog       *CatalogService
	locationStore redis.LocationStoreInterface
	router        routing.Router
	relay         relay.Relay
	dispatch      *DispatchService
}

// NewCarrierService creates a new CarrierService.
func NewCarrierService(
	carrierRepo repository.CarrierRepository,
	bookingRepo repository.BookingRepository,
	walletRepo repository.WalletRepository,
	catalog *CatalogService,
	locationStore redis.LocationStoreInterface,
	router routing.Router,
	r relay.Relay,
	dispatch *DispatchService,
) *CarrierService {
	return &CarrierService{
		carrierRepo:   carrierRepo,
		bookingRepo:   bookingRepo,
		walletRepo:    walletRepo,
		catalog:       catalog,
		locationStore: locationStore,
		router:        router,
		relay:         r,
		dispatch:      dispatch,
	}
}

// SetOnline flips the carrier's presence. Going offline removes the
// carrier from the geo index so push dispatch stops seeing it.
func (s *CarrierService) SetOnline(ctx context.Context, carrierID string, online bool) error {
	if carrierID == "" {
		return ErrInvalidCarrierID
	}

	if err := s.carrierRepo.SetOnline(ctx, carrierID, online); err != nil {
		return err
	}

	if !online {
		if err := s.locationStore.RemoveLocation(ctx, carrierID); err != nil {
			log.Printf("[carrier] geo index removal failed for %s: %v", carrierID, err)
		}
	}

	return nil
}

// tripProgress is the payload broadcast to a booking room on each
// location report during an active booking.
type tripProgress struct {
	Type                string       `json:"type"`
	BookingID           string       `json:"booking_id"`
	Location            domain.Point `json:"location"`
	ApproachKm          float64      `json:"approach_km,omitempty"`
	ApproachEtaMin      int          `json:"approach_eta_min,omitempty"`
	RemainingDistanceKm float64      `json:"remaining_distance_km,omitempty"`
	DropEtaMin          int          `json:"drop_eta_min,omitempty"`
}

// UpdateLocation records a carrier location report: the geo index and
// the carrier row always, plus trip progress and a room broadcast when
// the carrier is working a booking.
func (s *CarrierService) UpdateLocation(ctx context.Context, carrierID string, loc domain.Point) error {
	if carrierID == "" {
		return ErrInvalidCarrierID
	}
	if !validPoint(loc) {
		return ErrInvalidLocation
	}

	if err := s.carrierRepo.UpdateLocation(ctx, carrierID, loc); err != nil {
		return err
	}
	if err := s.locationStore.UpdateLocation(ctx, carrierID, loc.Lat, loc.Lng); err != nil {
		return err
	}

	// Approaching the pickup.
	if booking, err := s.bookingRepo.ActiveForCarrier(ctx, carrierID, domain.BookingStatusDriverAssigned); err != nil {
		return err
	} else if booking != nil {
		return s.reportProgress(ctx, booking, loc, booking.Pickup, true)
	}

	// En route to the drop.
	if booking, err := s.bookingRepo.ActiveForCarrier(ctx, carrierID, domain.BookingStatusTripStarted); err != nil {
		return err
	} else if booking != nil {
		return s.reportProgress(ctx, booking, loc, booking.Drop, false)
	}

	return nil
}

func (s *CarrierService) reportProgress(ctx context.Context, booking *domain.Booking, loc, target domain.Point, approaching bool) error {
	route, err := s.router.DistanceDuration(ctx, loc.Lat, loc.Lng, target.Lat, target.Lng)
	if err != nil {
		// A routing hiccup should not fail the location report.
		log.Printf("[carrier] progress routing failed for booking %s: %v", booking.ID, err)
		route = &routing.Route{}
	}

	progress := tripProgress{
		Type:      "trip_progress",
		BookingID: booking.ID,
		Location:  loc,
	}

	if approaching {
		booking.CarrierToPickupKm = route.DistanceKm
		booking.CarrierToPickupEtaMin = route.DurationMin
		progress.ApproachKm = route.DistanceKm
		progress.ApproachEtaMin = route.DurationMin
		if err := s.bookingRepo.UpdateApproach(ctx, booking.ID, route.DistanceKm, route.DurationMin, loc); err != nil {
			return err
		}
	} else {
		booking.RemainingDistanceKm = route.DistanceKm
		booking.DropEtaMin = route.DurationMin
		progress.RemainingDistanceKm = route.DistanceKm
		progress.DropEtaMin = route.DurationMin
		if err := s.bookingRepo.UpdateProgress(ctx, booking.ID, route.DistanceKm, route.DurationMin, loc); err != nil {
			return err
		}
	}

	s.relay.BroadcastToBooking(booking.ID, progress)
	return nil
}

// PendingRequests lists claimable bookings for the carrier: CONFIRMED,
// of the carrier's vehicle class and not previously rejected by it.
func (s *CarrierService) PendingRequests(ctx context.Context, carrierID string) ([]*domain.Booking, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}

	carrier, err := s.carrierRepo.GetByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if !carrier.Online {
		return nil, ErrCarrierOffline
	}

	return s.bookingRepo.PendingForCarrier(ctx, carrier.VehicleClass, carrierID)
}

// bookingEvent is the payload broadcast to a booking room on lifecycle
// transitions.
type bookingEvent struct {
	Type      string               `json:"type"`
	BookingID string               `json:"booking_id"`
	Status    domain.BookingStatus `json:"status"`
	CarrierID string               `json:"carrier_id,omitempty"`
}

// Accept claims a booking for the carrier. The claim is a conditional
// update, so of N carriers accepting concurrently exactly one wins and
// the rest get ErrBookingNotAvailable.
func (s *CarrierService) Accept(ctx context.Context, carrierID, bookingID string) (*domain.Booking, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	carrier, err := s.carrierRepo.GetByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if !carrier.Online {
		return nil, ErrCarrierOffline
	}
	if carrier.OnTrip {
		return nil, ErrCarrierBusy
	}

	if err := s.bookingRepo.AssignCarrier(ctx, bookingID, carrierID); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrBookingNotAvailable
		}
		return nil, err
	}

	if err := s.carrierRepo.SetEngagement(ctx, carrierID, false, true); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Price the approach from the carrier's last known position.
	if carrier.Location != nil {
		route, err := s.router.DistanceDuration(ctx,
			carrier.Location.Lat, carrier.Location.Lng,
			booking.Pickup.Lat, booking.Pickup.Lng)
		if err == nil {
			booking.CarrierToPickupKm = route.DistanceKm
			booking.CarrierToPickupEtaMin = route.DurationMin
			booking.PickupCharge = PickupCharge(route.DistanceKm)
			if err := s.bookingRepo.Update(ctx, booking); err != nil {
				return nil, err
			}
		} else {
			log.Printf("[carrier] approach routing failed for booking %s: %v", bookingID, err)
		}
	}

	s.relay.BroadcastToBooking(bookingID, bookingEvent{
		Type:      "carrier_assigned",
		BookingID: bookingID,
		Status:    booking.Status,
		CarrierID: carrierID,
	})

	return booking, nil
}

// Reject records the carrier's refusal and re-dispatches the booking to
// the remaining eligible carriers.
func (s *CarrierService) Reject(ctx context.Context, carrierID, bookingID string) error {
	if carrierID == "" {
		return ErrInvalidCarrierID
	}
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	if err := s.bookingRepo.AddRejectedCarrier(ctx, bookingID, carrierID); err != nil {
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == domain.BookingStatusConfirmed {
		if err := s.dispatch.Claim(ctx, booking); err != nil {
			log.Printf("[carrier] re-dispatch after rejection failed for booking %s: %v", bookingID, err)
		}
	}

	return nil
}

// StartTrip moves the carrier's assigned booking into TRIP_STARTED.
func (s *CarrierService) StartTrip(ctx context.Context, carrierID, bookingID string) (*domain.Booking, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	if err := s.bookingRepo.StartTrip(ctx, bookingID, carrierID, time.Now()); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.relay.BroadcastToBooking(bookingID, bookingEvent{
		Type:      "trip_started",
		BookingID: bookingID,
		Status:    booking.Status,
		CarrierID: carrierID,
	})

	return booking, nil
}

// CompleteTrip settles the carrier's running trip: the final fare is
// recomputed from the rate card and the routed trip distance, the
// settlement is guarded by a
// conditional update so a retried completion cannot credit the wallet
// twice, and the carrier is released for new work.
func (s *CarrierService) CompleteTrip(ctx context.Context, carrierID, bookingID string) (*domain.Booking, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CarrierID != carrierID {
		return nil, ErrNotAssignedCarrier
	}
	if booking.Status != domain.BookingStatusTripStarted {
		return nil, ErrInvalidState
	}

	pricing, err := s.catalog.Pricing(ctx, booking.City, booking.VehicleClass)
	if err != nil {
		return nil, err
	}

	// The fare settles on the actual route, not the selection-time
	// estimate.
	route, err := s.router.DistanceDuration(ctx,
		booking.Pickup.Lat, booking.Pickup.Lng,
		booking.Drop.Lat, booking.Drop.Lng)
	if err != nil {
		log.Printf("[carrier] completion routing failed for booking %s: %v", bookingID, err)
		return nil, ErrUpstreamUnavailable
	}
	booking.DistanceKm = route.DistanceKm
	booking.DurationMin = route.DurationMin

	now := time.Now()
	booking.FinalFare = FinalFare(
		pricing.BaseFare, pricing.PerKmRate, booking.DistanceKm,
		booking.PickupCharge, booking.LoadingCharge, booking.Discount,
	)
	booking.PlatformCommission = Commission(booking.FinalFare, pricing.CommissionPercent)
	booking.CarrierEarning = RoundFare(booking.FinalFare - booking.PlatformCommission)
	booking.TripEndedAt = now
	booking.FareFinalizedAt = now

	if err := s.bookingRepo.Finalize(ctx, booking); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	booking.Status = domain.BookingStatusTripCompleted

	// Settlement. Online fares were collected by the platform, so the
	// carrier's share moves to the wallet. Cash fares are collected at
	// the drop and settle off-platform.
	if booking.PaymentMethod == domain.PaymentMethodOnline {
		if err := s.walletRepo.Credit(ctx, carrierID, booking.CarrierEarning); err != nil {
			return nil, err
		}
	} else {
		booking.PaymentStatus = domain.PaymentStatusSuccess
	}

	booking.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.carrierRepo.SetEngagement(ctx, carrierID, true, false); err != nil {
		return nil, err
	}

	s.relay.BroadcastToBooking(bookingID, bookingEvent{
		Type:      "trip_completed",
		BookingID: bookingID,
		Status:    booking.Status,
		CarrierID: carrierID,
	})

	return booking, nil
}

// EarningsResponse summarises a carrier's settled trips. Monthly is
// keyed by settlement month, "2006-01".
type EarningsResponse struct {
	TotalTrips      int
	GrossFare       float64
	TotalCommission float64
	NetEarning      float64
	WalletBalance   float64
	Monthly         map[string]float64
	Trips           []*domain.Booking
}

// Earnings aggregates the carrier's settled trips and current balance.
func (s *CarrierService) Earnings(ctx context.Context, carrierID string) (*EarningsResponse, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}

	trips, err := s.bookingRepo.CompletedForCarrier(ctx, carrierID)
	if err != nil {
		return nil, err
	}

	resp := &EarningsResponse{
		Monthly: make(map[string]float64),
		Trips:   trips,
	}
	for _, trip := range trips {
		resp.TotalTrips++
		resp.GrossFare += trip.FinalFare
		resp.TotalCommission += trip.PlatformCommission
		resp.NetEarning += trip.CarrierEarning
		month := trip.TripEndedAt.Format("2006-01")
		resp.Monthly[month] = RoundFare(resp.Monthly[month] + trip.CarrierEarning)
	}
	resp.GrossFare = RoundFare(resp.GrossFare)
	resp.TotalCommission = RoundFare(resp.TotalCommission)
	resp.NetEarning = RoundFare(resp.NetEarning)

	wallet, err := s.walletRepo.Get(ctx, carrierID)
	if err != nil {
		if err != repository.ErrNotFound {
			return nil, err
		}
	} else {
		resp.WalletBalance = wallet.Balance
	}

	return resp, nil
}
