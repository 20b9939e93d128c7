package service

import (
	"context"
	"log"
	"time"

	"porter/internal/domain"
	"porter/internal/redis"
	"porter/internal/relay"
	"porter/internal/repository"
)

const (
	pushRadiusKm    = 3.0
	dispatchLockTTL = 30 * time.Second
)

// DispatchService fans a booking out to carriers. Push mode targets
// carriers near the pickup point and drives the instant-booking status
// machine; claim mode targets every eligible carrier of the class and
// leaves the booking CONFIRMED for the accept race to resolve.
type DispatchService struct {
	bookingRepo   repository.BookingRepository
	carrierRepo   repository.CarrierRepository
	locationStore redis.LocationStoreInterface
	lockStore     redis.LockStoreInterface
	relay         relay.Relay
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(
	bookingRepo repository.BookingRepository,
	carrierRepo repository.CarrierRepository,
	locationStore redis.LocationStoreInterface,
	lockStore redis.LockStoreInterface,
	r relay.Relay,
) *DispatchService {
	return &DispatchService{
		bookingRepo:   bookingRepo,
		carrierRepo:   carrierRepo,
		locationStore: locationStore,
		lockStore:     lockStore,
		relay:         r,
	}
}

// dispatchNotice is the payload pushed to a carrier's channel.
type dispatchNotice struct {
	Type          string       `json:"type"`
	BookingID     string       `json:"booking_id"`
	VehicleClass  string       `json:"vehicle_class"`
	Pickup        domain.Point `json:"pickup"`
	Drop          domain.Point `json:"drop"`
	DistanceKm    float64      `json:"distance_km"`
	PayableAmount float64      `json:"payable_amount"`
}

func notice(b *domain.Booking) dispatchNotice {
	return dispatchNotice{
		Type:          "booking_request",
		BookingID:     b.ID,
		VehicleClass:  b.VehicleClass,
		Pickup:        b.Pickup,
		Drop:          b.Drop,
		DistanceKm:    b.DistanceKm,
		PayableAmount: b.PayableAmount,
	}
}

// Push notifies carriers within the search radius of the pickup point
// and moves the booking to DRIVER_NOTIFIED, or to NO_DRIVER_FOUND when
// nobody qualifies.
func (s *DispatchService) Push(ctx context.Context, booking *domain.Booking) error {
	locked, err := s.lockStore.AcquireDispatchLock(ctx, booking.ID, dispatchLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		// Another instance is already dispatching this booking.
		return nil
	}
	defer func() {
		_ = s.lockStore.ReleaseDispatchLock(ctx, booking.ID)
	}()

	nearby, err := s.locationStore.FindNearbyCarriers(ctx, booking.Pickup.Lat, booking.Pickup.Lng, pushRadiusKm)
	if err != nil {
		return err
	}

	notified := 0
	for _, loc := range nearby {
		carrier, err := s.carrierRepo.GetByID(ctx, loc.CarrierID)
		if err != nil {
			if err == repository.ErrNotFound {
				continue
			}
			return err
		}

		if !carrier.Online || !carrier.Available || carrier.OnTrip {
			continue
		}
		if carrier.VehicleClass != booking.VehicleClass {
			continue
		}

		s.relay.NotifyCarrier(carrier.ID, notice(booking))
		notified++
	}

	status := domain.BookingStatusDriverNotified
	if notified == 0 {
		status = domain.BookingStatusNoDriverFound
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, status); err != nil {
		return err
	}
	booking.Status = status

	log.Printf("[dispatch] booking %s: notified %d nearby carriers, status %s", booking.ID, notified, status)
	return nil
}

// Claim notifies every eligible carrier of the booking's vehicle class,
// skipping carriers that already rejected it. The booking stays
// CONFIRMED; when no carrier is eligible it moves to DRIVER_NOT_FOUND.
func (s *DispatchService) Claim(ctx context.Context, booking *domain.Booking) error {
	locked, err := s.lockStore.AcquireDispatchLock(ctx, booking.ID, dispatchLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}
	defer func() {
		_ = s.lockStore.ReleaseDispatchLock(ctx, booking.ID)
	}()

	eligible, err := s.carrierRepo.ListEligible(ctx, booking.VehicleClass, booking.RejectedCarriers)
	if err != nil {
		return err
	}

	if len(eligible) == 0 {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusDriverNotFound); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusDriverNotFound
		log.Printf("[dispatch] booking %s: no eligible carrier", booking.ID)
		return nil
	}

	for _, carrier := range eligible {
		s.relay.NotifyCarrier(carrier.ID, notice(booking))
	}

	log.Printf("[dispatch] booking %s: notified %d eligible carriers", booking.ID, len(eligible))
	return nil
}
