package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"porter/internal/domain"
	"porter/internal/service"
)

func TestSelectVehicleCreatesBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	booking, err := env.booking.SelectVehicle(ctx, service.SelectVehicleRequest{
		RequesterID:  "req-1",
		Pickup:       domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:         domain.Point{Lat: 19.107, Lng: 72.837},
		VehicleClass: "Bike",
		LabourCount:  2,
	})
	if err != nil {
		t.Fatalf("SelectVehicle failed: %v", err)
	}

	if booking.Status != domain.BookingStatusVehicleSelected {
		t.Errorf("status = %s, want VEHICLE_SELECTED", booking.Status)
	}
	if booking.City != "Mumbai" {
		t.Errorf("city = %s, want Mumbai", booking.City)
	}
	if booking.BaseFare != 50 {
		t.Errorf("base fare = %v, want 50", booking.BaseFare)
	}
	if booking.LoadingCharge != 200 {
		t.Errorf("loading charge = %v, want 200", booking.LoadingCharge)
	}
	if booking.TripType != domain.TripTypeInCity {
		t.Errorf("trip type = %s, want IN_CITY", booking.TripType)
	}
	if env.bookingRepo.GetBooking(booking.ID) == nil {
		t.Error("booking not persisted")
	}
}

func TestSelectVehicleBaseFareRoundTrip(t *testing.T) {
	env := newTestEnv()

	booking, err := env.booking.SelectVehicle(context.Background(), service.SelectVehicleRequest{
		RequesterID:  "req-1",
		Pickup:       domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:         domain.Point{Lat: 19.107, Lng: 72.837},
		VehicleClass: "Bike",
	})
	if err != nil {
		t.Fatalf("SelectVehicle failed: %v", err)
	}

	// The snapshot holds the rate card's base, not the distance quote.
	// The per-km component enters the fare only at completion.
	if booking.BaseFare != 50 {
		t.Errorf("base fare = %v, want the rate card base 50", booking.BaseFare)
	}
	if booking.DistanceKm != 12.5 {
		t.Errorf("distance = %v, want 12.5", booking.DistanceKm)
	}
}

func TestSelectVehicleUnpricedClass(t *testing.T) {
	env := newTestEnv()

	_, err := env.booking.SelectVehicle(context.Background(), service.SelectVehicleRequest{
		RequesterID:  "req-1",
		Pickup:       domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:         domain.Point{Lat: 19.107, Lng: 72.837},
		VehicleClass: "MiniTruck",
	})
	if !errors.Is(err, service.ErrPricingMissing) {
		t.Fatalf("err = %v, want ErrPricingMissing", err)
	}
}

func TestEstimateIncludesUnpricedClass(t *testing.T) {
	env := newTestEnv()

	result, err := env.booking.Estimate(context.Background(), service.EstimateRequest{
		Pickup: domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:   domain.Point{Lat: 19.107, Lng: 72.837},
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if len(result.Estimates) != 2 {
		t.Fatalf("got %d estimates, want 2", len(result.Estimates))
	}

	byClass := make(map[string]*float64)
	for _, e := range result.Estimates {
		byClass[e.VehicleClass] = e.Fare
	}

	if fare := byClass["Bike"]; fare == nil || *fare != 175 {
		t.Errorf("Bike fare = %v, want 175", fare)
	}
	if fare, ok := byClass["MiniTruck"]; !ok || fare != nil {
		t.Errorf("MiniTruck fare = %v, want nil (unpriced)", fare)
	}
}

func TestRouteCheckInactiveCity(t *testing.T) {
	env := newTestEnv()
	env.catalogRepo.AddCity(&domain.City{Name: "Mumbai", Active: false})

	_, err := env.booking.RouteCheck(context.Background(), service.RouteCheckRequest{
		Pickup: domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:   domain.Point{Lat: 19.107, Lng: 72.837},
	})
	if !errors.Is(err, service.ErrCityNotServiced) {
		t.Fatalf("err = %v, want ErrCityNotServiced", err)
	}
}

func TestRouteCheckRejectsBadCoordinates(t *testing.T) {
	env := newTestEnv()

	_, err := env.booking.RouteCheck(context.Background(), service.RouteCheckRequest{
		Pickup: domain.Point{Lat: 91, Lng: 72.877},
		Drop:   domain.Point{Lat: 19.107, Lng: 72.837},
	})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestRouteCheckRoutingOutage(t *testing.T) {
	env := newTestEnv()
	env.router.RouteError = ErrMockTimeout

	_, err := env.booking.RouteCheck(context.Background(), service.RouteCheckRequest{
		Pickup: domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:   domain.Point{Lat: 19.107, Lng: 72.837},
	})
	if !errors.Is(err, service.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestLatestReturnsNewestInStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.bookingRepo.AddBooking(&domain.Booking{
		ID:          "b-old",
		RequesterID: "req-1",
		Status:      domain.BookingStatusVehicleSelected,
		CreatedAt:   time.Now().Add(-time.Hour),
	})
	env.bookingRepo.AddBooking(&domain.Booking{
		ID:          "b-new",
		RequesterID: "req-1",
		Status:      domain.BookingStatusVehicleSelected,
		CreatedAt:   time.Now(),
	})

	booking, err := env.booking.Latest(ctx, "req-1", domain.BookingStatusVehicleSelected)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if booking.ID != "b-new" {
		t.Errorf("latest = %s, want b-new", booking.ID)
	}

	if _, err := env.booking.Latest(ctx, "req-1", ""); !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("empty status: err = %v, want ErrInvalidStatus", err)
	}
}

func TestPaymentPreviewComputesPayable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	booking, err := env.booking.SelectVehicle(ctx, service.SelectVehicleRequest{
		RequesterID:  "req-1",
		Pickup:       domain.Point{Lat: 19.076, Lng: 72.877},
		Drop:         domain.Point{Lat: 19.107, Lng: 72.837},
		VehicleClass: "Bike",
		LabourCount:  1,
	})
	if err != nil {
		t.Fatalf("SelectVehicle failed: %v", err)
	}

	previewed, err := env.booking.PaymentPreview(ctx, service.PaymentPreviewRequest{
		RequesterID: "req-1",
		BookingID:   booking.ID,
		Discount:    25,
	})
	if err != nil {
		t.Fatalf("PaymentPreview failed: %v", err)
	}

	// 50 base + 100 loading - 25 discount.
	if previewed.PayableAmount != 125 {
		t.Errorf("payable = %v, want 125", previewed.PayableAmount)
	}
	if previewed.Status != domain.BookingStatusPaymentPreview {
		t.Errorf("status = %s, want PAYMENT_PREVIEW", previewed.Status)
	}
}

func TestCancelAfterTripStartRejected(t *testing.T) {
	env := newTestEnv()

	env.bookingRepo.AddBooking(&domain.Booking{
		ID:          "b1",
		RequesterID: "req-1",
		Status:      domain.BookingStatusTripStarted,
		CarrierID:   "car-1",
		CreatedAt:   time.Now(),
	})

	_, err := env.booking.Cancel(context.Background(), "req-1", "b1")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}

	if got := env.bookingRepo.GetBooking("b1").Status; got != domain.BookingStatusTripStarted {
		t.Errorf("status changed to %s on rejected cancel", got)
	}
}

func TestCancelRefundsOnlinePayment(t *testing.T) {
	env := newTestEnv()

	env.bookingRepo.AddBooking(&domain.Booking{
		ID:            "b1",
		RequesterID:   "req-1",
		Status:        domain.BookingStatusConfirmed,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusSuccess,
		PaymentID:     "pay_1",
		PayableAmount: 250,
		CreatedAt:     time.Now(),
	})

	booking, err := env.booking.Cancel(context.Background(), "req-1", "b1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", booking.Status)
	}
	if booking.PaymentStatus != domain.PaymentStatusRefundInitiated {
		t.Errorf("payment status = %s, want REFUND_INITIATED", booking.PaymentStatus)
	}
	if env.gw.RefundCount() != 1 {
		t.Errorf("refund count = %d, want 1", env.gw.RefundCount())
	}
}

func TestCancelRefundsExactMinorUnits(t *testing.T) {
	env := newTestEnv()

	env.bookingRepo.AddBooking(&domain.Booking{
		ID:            "b1",
		RequesterID:   "req-1",
		Status:        domain.BookingStatusConfirmed,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusSuccess,
		PaymentID:     "pay_1",
		PayableAmount: 2.55,
		CreatedAt:     time.Now(),
	})

	if _, err := env.booking.Cancel(context.Background(), "req-1", "b1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// 2.55 is not exactly representable; truncation would refund 254.
	if got := env.gw.LastRefundMinor(); got != 255 {
		t.Errorf("refund minor units = %d, want 255", got)
	}
}

func TestCancelFailsClosedWhenRefundFails(t *testing.T) {
	env := newTestEnv()
	env.gw.RefundErr = errors.New("gateway down")

	env.bookingRepo.AddBooking(&domain.Booking{
		ID:            "b1",
		RequesterID:   "req-1",
		Status:        domain.BookingStatusConfirmed,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusSuccess,
		PaymentID:     "pay_1",
		PayableAmount: 250,
		CreatedAt:     time.Now(),
	})

	_, err := env.booking.Cancel(context.Background(), "req-1", "b1")
	if !errors.Is(err, service.ErrRefundFailed) {
		t.Fatalf("err = %v, want ErrRefundFailed", err)
	}

	// No state change: the booking can be cancelled again once the
	// gateway recovers.
	stored := env.bookingRepo.GetBooking("b1")
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", stored.Status)
	}
	if stored.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("payment status = %s, want SUCCESS", stored.PaymentStatus)
	}
}
