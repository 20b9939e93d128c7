package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"porter/internal/domain"
	"porter/internal/routing"
	"porter/internal/service"
)

func confirmedBooking(id string, method domain.PaymentMethod) *domain.Booking {
	b := &domain.Booking{
		ID:            id,
		RequesterID:   "req-1",
		City:          "Mumbai",
		VehicleClass:  "Bike",
		Pickup:        domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:          domain.Point{Lat: 19.107, Lng: 72.837},
		DistanceKm:    12.5,
		DurationMin:   35,
		BaseFare:      50,
		LoadingCharge: 100,
		PayableAmount: 150,
		PaymentMethod: method,
		Status:        domain.BookingStatusConfirmed,
		CreatedAt:     time.Now(),
	}
	if method == domain.PaymentMethodOnline {
		b.PaymentStatus = domain.PaymentStatusSuccess
	} else {
		b.PaymentStatus = domain.PaymentStatusPending
	}
	return b
}

func TestAcceptAssignsCarrier(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	booking, err := env.carrier.Accept(ctx, "car-1", "b1")
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	if booking.Status != domain.BookingStatusDriverAssigned {
		t.Errorf("status = %s, want DRIVER_ASSIGNED", booking.Status)
	}
	if booking.CarrierID != "car-1" {
		t.Errorf("carrier = %s, want car-1", booking.CarrierID)
	}
	// Approach of 12.5 km falls in the top pickup tier.
	if booking.PickupCharge != 40 {
		t.Errorf("pickup charge = %v, want 40", booking.PickupCharge)
	}

	carrier := env.carrierRepo.GetCarrier("car-1")
	if !carrier.OnTrip || carrier.Available {
		t.Errorf("carrier engagement = (available=%v, onTrip=%v), want (false, true)",
			carrier.Available, carrier.OnTrip)
	}
}

func TestAcceptWhileBusy(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))
	env.bookingRepo.AddBooking(confirmedBooking("b2", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("first Accept failed: %v", err)
	}

	_, err := env.carrier.Accept(ctx, "car-1", "b2")
	if !errors.Is(err, service.ErrCarrierBusy) {
		t.Fatalf("err = %v, want ErrCarrierBusy", err)
	}
}

func TestAcceptRace(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	const contenders = 8
	for i := 0; i < contenders; i++ {
		env.addOnlineCarrier(fmt.Sprintf("car-%d", i), 19.07, 72.88)
	}

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.carrier.Accept(ctx, id, "b1")
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, service.ErrBookingNotAvailable):
				atomic.AddInt32(&losses, 1)
			default:
				t.Errorf("unexpected error from %s: %v", id, err)
			}
		}(fmt.Sprintf("car-%d", i))
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if losses != contenders-1 {
		t.Fatalf("losses = %d, want %d", losses, contenders-1)
	}

	stored := env.bookingRepo.GetBooking("b1")
	if stored.Status != domain.BookingStatusDriverAssigned || stored.CarrierID == "" {
		t.Fatalf("booking = (%s, carrier %q), want assigned with a carrier", stored.Status, stored.CarrierID)
	}
	winner := env.carrierRepo.GetCarrier(stored.CarrierID)
	if !winner.OnTrip {
		t.Errorf("winning carrier %s not marked on trip", stored.CarrierID)
	}
}

func TestRejectExcludesCarrierFromRedispatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.addOnlineCarrier("car-2", 19.08, 72.89)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if err := env.carrier.Reject(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	stored := env.bookingRepo.GetBooking("b1")
	if !stored.HasRejected("car-1") {
		t.Error("car-1 not recorded as rejected")
	}
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", stored.Status)
	}

	// Re-dispatch reaches the remaining carrier only.
	if len(env.relay.CarrierNotices["car-1"]) != 0 {
		t.Error("rejecting carrier was re-notified")
	}
	if len(env.relay.CarrierNotices["car-2"]) == 0 {
		t.Error("remaining carrier was not notified")
	}

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); !errors.Is(err, service.ErrBookingNotAvailable) {
		t.Fatalf("rejecting carrier accepted its own rejection: err = %v", err)
	}
}

func TestCompleteTripSettlesOnlineToWallet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}

	booking, err := env.carrier.CompleteTrip(ctx, "car-1", "b1")
	if err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}

	// 50 base + 10*12.5 km + 40 pickup + 100 loading, 20% commission.
	if booking.FinalFare != 315 {
		t.Errorf("final fare = %v, want 315", booking.FinalFare)
	}
	if booking.PlatformCommission != 63 {
		t.Errorf("commission = %v, want 63", booking.PlatformCommission)
	}
	if booking.CarrierEarning != 252 {
		t.Errorf("earning = %v, want 252", booking.CarrierEarning)
	}
	if booking.Status != domain.BookingStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", booking.Status)
	}
	if got := env.walletRepo.Balance("car-1"); got != 252 {
		t.Errorf("wallet balance = %v, want 252", got)
	}

	carrier := env.carrierRepo.GetCarrier("car-1")
	if carrier.OnTrip || !carrier.Available {
		t.Errorf("carrier not released: available=%v onTrip=%v", carrier.Available, carrier.OnTrip)
	}
}

func TestCompleteTripSettlesOnActualRoute(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}

	// A diversion made the driven route longer than the 12.5 km estimate.
	env.router.Route = &routing.Route{DistanceKm: 20, DurationMin: 55}

	booking, err := env.carrier.CompleteTrip(ctx, "car-1", "b1")
	if err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}

	if booking.DistanceKm != 20 {
		t.Errorf("distance = %v, want the re-routed 20", booking.DistanceKm)
	}
	if booking.DurationMin != 55 {
		t.Errorf("duration = %v, want 55", booking.DurationMin)
	}
	// 50 base + 10*20 km + 40 pickup + 100 loading.
	if booking.FinalFare != 390 {
		t.Errorf("final fare = %v, want 390", booking.FinalFare)
	}
}

func TestCompleteTripRoutingOutage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}

	env.router.RouteError = ErrMockTimeout
	_, err := env.carrier.CompleteTrip(ctx, "car-1", "b1")
	if !errors.Is(err, service.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}

	// Nothing settled; the completion can be retried.
	if got := env.bookingRepo.GetBooking("b1").Status; got != domain.BookingStatusTripStarted {
		t.Errorf("status = %s, want TRIP_STARTED", got)
	}
	if got := atomic.LoadInt32(&env.walletRepo.CreditCallCount); got != 0 {
		t.Errorf("wallet credited %d times on failed completion", got)
	}
}

func TestLocationReportTracksApproach(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	// Carrier closed in on the pickup since accepting.
	env.router.Route = &routing.Route{DistanceKm: 2.5, DurationMin: 8}
	if err := env.carrier.UpdateLocation(ctx, "car-1", domain.Point{Lat: 19.075, Lng: 72.876}); err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}

	stored := env.bookingRepo.GetBooking("b1")
	if stored.CarrierToPickupKm != 2.5 {
		t.Errorf("approach km = %v, want 2.5", stored.CarrierToPickupKm)
	}
	if stored.CarrierToPickupEtaMin != 8 {
		t.Errorf("approach eta = %v, want 8", stored.CarrierToPickupEtaMin)
	}
	// Still approaching, no trip progress yet.
	if stored.RemainingDistanceKm != 0 || stored.DropEtaMin != 0 {
		t.Errorf("trip progress = (%v, %v), want untouched before the trip starts",
			stored.RemainingDistanceKm, stored.DropEtaMin)
	}
	if stored.LastCarrierLocation == nil || stored.LastCarrierLocation.Lat != 19.075 {
		t.Errorf("last location = %v, want the reported point", stored.LastCarrierLocation)
	}
}

func TestCompleteTripCashSettlesOffPlatform(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodCash))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}

	booking, err := env.carrier.CompleteTrip(ctx, "car-1", "b1")
	if err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}

	if booking.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("payment status = %s, want SUCCESS", booking.PaymentStatus)
	}
	if got := atomic.LoadInt32(&env.walletRepo.CreditCallCount); got != 0 {
		t.Errorf("wallet credited %d times on a cash trip", got)
	}
}

func TestCompleteTripIsIdempotentGuarded(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}
	if _, err := env.carrier.CompleteTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}

	_, err := env.carrier.CompleteTrip(ctx, "car-1", "b1")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("retried completion: err = %v, want ErrInvalidState", err)
	}
	if got := atomic.LoadInt32(&env.walletRepo.CreditCallCount); got != 1 {
		t.Errorf("wallet credited %d times, want 1", got)
	}
}

func TestStartTripByWrongCarrier(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.addOnlineCarrier("car-2", 19.08, 72.89)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	_, err := env.carrier.StartTrip(ctx, "car-2", "b1")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestCompleteTripByWrongCarrier(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.addOnlineCarrier("car-2", 19.08, 72.89)
	env.bookingRepo.AddBooking(confirmedBooking("b1", domain.PaymentMethodOnline))

	if _, err := env.carrier.Accept(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.carrier.StartTrip(ctx, "car-1", "b1"); err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}

	_, err := env.carrier.CompleteTrip(ctx, "car-2", "b1")
	if !errors.Is(err, service.ErrNotAssignedCarrier) {
		t.Fatalf("err = %v, want ErrNotAssignedCarrier", err)
	}
}

func TestEarningsAggregatesSettledTrips(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOnlineCarrier("car-1", 19.07, 72.88)

	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("b%d", i)
		env.bookingRepo.AddBooking(confirmedBooking(id, domain.PaymentMethodOnline))
		if _, err := env.carrier.Accept(ctx, "car-1", id); err != nil {
			t.Fatalf("Accept %s failed: %v", id, err)
		}
		if _, err := env.carrier.StartTrip(ctx, "car-1", id); err != nil {
			t.Fatalf("StartTrip %s failed: %v", id, err)
		}
		if _, err := env.carrier.CompleteTrip(ctx, "car-1", id); err != nil {
			t.Fatalf("CompleteTrip %s failed: %v", id, err)
		}
	}

	earnings, err := env.carrier.Earnings(ctx, "car-1")
	if err != nil {
		t.Fatalf("Earnings failed: %v", err)
	}

	if earnings.TotalTrips != 2 {
		t.Errorf("total trips = %d, want 2", earnings.TotalTrips)
	}
	if earnings.GrossFare != 630 {
		t.Errorf("gross fare = %v, want 630", earnings.GrossFare)
	}
	if earnings.TotalCommission != 126 {
		t.Errorf("commission = %v, want 126", earnings.TotalCommission)
	}
	if earnings.NetEarning != 504 {
		t.Errorf("net earning = %v, want 504", earnings.NetEarning)
	}
	if earnings.WalletBalance != 504 {
		t.Errorf("wallet balance = %v, want 504", earnings.WalletBalance)
	}

	month := time.Now().Format("2006-01")
	if earnings.Monthly[month] != 504 {
		t.Errorf("monthly[%s] = %v, want 504", month, earnings.Monthly[month])
	}
}
