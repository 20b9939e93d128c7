package tests

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"porter/internal/domain"
	"porter/internal/service"
)

func signCallback(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func previewedBooking(id string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		RequesterID:   "req-1",
		City:          "Mumbai",
		VehicleClass:  "Bike",
		BaseFare:      50,
		LoadingCharge: 100,
		Discount:      25,
		PayableAmount: 125,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.BookingStatusPaymentPreview,
		CreatedAt:     time.Now(),
	}
}

func TestInitiateCreatesOrder(t *testing.T) {
	env := newTestEnv()
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	result, err := env.payment.Initiate(context.Background(), service.InitiateRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
	})
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if result.OrderID == "" {
		t.Error("order ID not set")
	}
	if result.AmountMinor != 12500 {
		t.Errorf("amount minor = %d, want 12500", result.AmountMinor)
	}
	if result.Booking.Status != domain.BookingStatusPaymentInitiated {
		t.Errorf("status = %s, want PAYMENT_INITIATED", result.Booking.Status)
	}
	if result.Booking.PaymentMethod != domain.PaymentMethodOnline {
		t.Errorf("payment method = %s, want ONLINE", result.Booking.PaymentMethod)
	}
}

func TestInitiateRoundsMinorUnits(t *testing.T) {
	env := newTestEnv()
	booking := previewedBooking("b1")
	// 1.15 is not exactly representable; truncation would order 114.
	booking.PayableAmount = 1.15
	env.bookingRepo.AddBooking(booking)

	result, err := env.payment.Initiate(context.Background(), service.InitiateRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
	})
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if result.AmountMinor != 115 {
		t.Errorf("amount minor = %d, want 115", result.AmountMinor)
	}
}

func TestInitiateGatewayDown(t *testing.T) {
	env := newTestEnv()
	env.gw.CreateOrderErr = errors.New("connection refused")
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	_, err := env.payment.Initiate(context.Background(), service.InitiateRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
	})
	if !errors.Is(err, service.ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}

	// Still previewed, so the requester can retry.
	if got := env.bookingRepo.GetBooking("b1").Status; got != domain.BookingStatusPaymentPreview {
		t.Errorf("status = %s, want PAYMENT_PREVIEW", got)
	}
}

func TestVerifyConfirmsAndDispatches(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-1", 19.07, 72.88)

	env.bookingRepo.AddBooking(previewedBooking("b1"))
	if _, err := env.payment.Initiate(context.Background(), service.InitiateRequest{
		RequesterID: "req-1", BookingID: "b1",
	}); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	orderID := env.bookingRepo.GetBooking("b1").OrderID
	booking, err := env.payment.Verify(context.Background(), service.VerifyRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
		PaymentID:   "pay_1",
		Signature:   signCallback(orderID, "pay_1"),
	})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("payment status = %s, want SUCCESS", booking.PaymentStatus)
	}
	if env.relay.NotifiedCarriers() != 1 {
		t.Errorf("notified carriers = %d, want 1", env.relay.NotifiedCarriers())
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	env := newTestEnv()
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	if _, err := env.payment.Initiate(context.Background(), service.InitiateRequest{
		RequesterID: "req-1", BookingID: "b1",
	}); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	_, err := env.payment.Verify(context.Background(), service.VerifyRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
		PaymentID:   "pay_1",
		Signature:   signCallback("order_forged", "pay_1"),
	})
	if !errors.Is(err, service.ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}

	stored := env.bookingRepo.GetBooking("b1")
	if stored.Status != domain.BookingStatusPaymentFailed {
		t.Errorf("status = %s, want PAYMENT_FAILED", stored.Status)
	}
	if stored.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("payment status = %s, want FAILED", stored.PaymentStatus)
	}
}

func TestVerifyWithoutInitiate(t *testing.T) {
	env := newTestEnv()
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	_, err := env.payment.Verify(context.Background(), service.VerifyRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
		PaymentID:   "pay_1",
		Signature:   "whatever",
	})
	if !errors.Is(err, service.ErrPaymentNotInitiated) {
		t.Fatalf("err = %v, want ErrPaymentNotInitiated", err)
	}
}

func TestConfirmCashDispatches(t *testing.T) {
	env := newTestEnv()
	env.addOnlineCarrier("car-1", 19.07, 72.88)
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	booking, err := env.payment.ConfirmCash(context.Background(), service.ConfirmCashRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
	})
	if err != nil {
		t.Fatalf("ConfirmCash failed: %v", err)
	}

	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.PaymentMethod != domain.PaymentMethodCash {
		t.Errorf("payment method = %s, want CASH", booking.PaymentMethod)
	}
	if env.relay.NotifiedCarriers() != 1 {
		t.Errorf("notified carriers = %d, want 1", env.relay.NotifiedCarriers())
	}
}

func TestConfirmWithNoEligibleCarrier(t *testing.T) {
	env := newTestEnv()
	env.bookingRepo.AddBooking(previewedBooking("b1"))

	booking, err := env.payment.ConfirmCash(context.Background(), service.ConfirmCashRequest{
		RequesterID: "req-1",
		BookingID:   "b1",
	})
	if err != nil {
		t.Fatalf("ConfirmCash failed: %v", err)
	}

	if booking.Status != domain.BookingStatusDriverNotFound {
		t.Errorf("status = %s, want DRIVER_NOT_FOUND", booking.Status)
	}
}
