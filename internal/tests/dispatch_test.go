package tests

import (
	"context"
	"testing"
	"time"

	"porter/internal/domain"
)

func searchingBooking(id string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		RequesterID:   "req-1",
		City:          "Mumbai",
		VehicleClass:  "Bike",
		Pickup:        domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:          domain.Point{Lat: 19.107, Lng: 72.837},
		DistanceKm:    12.5,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.BookingStatusSearchingDriver,
		CreatedAt:     time.Now(),
	}
}

func TestPushNotifiesNearbyCarrier(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-1", 19.077, 72.878)

	booking := searchingBooking("b1")
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Push(context.Background(), booking); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if booking.Status != domain.BookingStatusDriverNotified {
		t.Errorf("status = %s, want DRIVER_NOTIFIED", booking.Status)
	}
	if len(env.relay.CarrierNotices["car-1"]) != 1 {
		t.Errorf("car-1 notices = %d, want 1", len(env.relay.CarrierNotices["car-1"]))
	}
}

func TestPushWithNobodyNearby(t *testing.T) {
	env := newTestEnv()

	booking := searchingBooking("b1")
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Push(context.Background(), booking); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if booking.Status != domain.BookingStatusNoDriverFound {
		t.Errorf("status = %s, want NO_DRIVER_FOUND", booking.Status)
	}
}

func TestPushSkipsWrongClassAndBusyCarriers(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-bike", 19.077, 72.878)
	env.addOnlineCarrier("car-truck", 19.077, 72.878)
	env.carrierRepo.GetCarrier("car-truck").VehicleClass = "MiniTruck"
	env.addOnlineCarrier("car-busy", 19.077, 72.878)
	env.carrierRepo.GetCarrier("car-busy").OnTrip = true

	booking := searchingBooking("b1")
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Push(context.Background(), booking); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if env.relay.NotifiedCarriers() != 1 {
		t.Errorf("notified carriers = %d, want only the matching one", env.relay.NotifiedCarriers())
	}
	if len(env.relay.CarrierNotices["car-bike"]) != 1 {
		t.Error("matching carrier was not notified")
	}
}

func TestClaimWithNoEligibleCarrier(t *testing.T) {
	env := newTestEnv()

	booking := confirmedBooking("b1", domain.PaymentMethodOnline)
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Claim(context.Background(), booking); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	if booking.Status != domain.BookingStatusDriverNotFound {
		t.Errorf("status = %s, want DRIVER_NOT_FOUND", booking.Status)
	}
}

func TestClaimExcludesRejectedCarriers(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-1", 19.077, 72.878)
	env.addOnlineCarrier("car-2", 19.078, 72.879)

	booking := confirmedBooking("b1", domain.PaymentMethodOnline)
	booking.RejectedCarriers = []string{"car-1"}
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Claim(context.Background(), booking); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}
	if len(env.relay.CarrierNotices["car-1"]) != 0 {
		t.Error("rejected carrier was notified")
	}
	if len(env.relay.CarrierNotices["car-2"]) != 1 {
		t.Error("eligible carrier was not notified")
	}
}

func TestDispatchSkipsWhenLockHeld(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-1", 19.077, 72.878)
	env.lockStore.ForceAcquireFailure = true

	booking := searchingBooking("b1")
	env.bookingRepo.AddBooking(booking)

	if err := env.dispatch.Push(context.Background(), booking); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	// Another instance holds the lock, so nothing moves here.
	if booking.Status != domain.BookingStatusSearchingDriver {
		t.Errorf("status = %s, want SEARCHING_DRIVER untouched", booking.Status)
	}
	if env.relay.NotifiedCarriers() != 0 {
		t.Errorf("notified carriers = %d, want 0", env.relay.NotifiedCarriers())
	}
}
