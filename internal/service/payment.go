package service

import (
	"context"
	"log"
	"math"

	"porter/internal/domain"
	"porter/internal/gateway"
	"porter/internal/repository"
)

const paymentCurrency = "INR"

// PaymentService handles paying for a booking: online orders through
// the gateway, callback verification and cash confirmation. Successful
// confirmation hands the booking to claim dispatch.
type PaymentService struct {
	bookingRepo repository.BookingRepository
	gw          gateway.Gateway
	secret      string
	dispatch    *DispatchService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	bookingRepo repository.BookingRepository,
	gw gateway.Gateway,
	secret string,
	dispatch *DispatchService,
) *PaymentService {
	return &PaymentService{
		bookingRepo: bookingRepo,
		gw:          gw,
		secret:      secret,
		dispatch:    dispatch,
	}
}

// InitiateRequest contains the parameters for starting an online payment.
type InitiateRequest struct {
	RequesterID string
	BookingID   string
}

// InitiateResponse carries the gateway order the client pays against.
type InitiateResponse struct {
	Booking     *domain.Booking
	OrderID     string
	AmountMinor int64
	Currency    string
}

// Initiate creates a gateway order for the previewed amount and moves
// the booking to PAYMENT_INITIATED. A booking whose earlier attempt
// failed can be re-initiated with a fresh order.
func (s *PaymentService) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetForRequester(ctx, req.RequesterID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPaymentPreview &&
		booking.Status != domain.BookingStatusPaymentFailed {
		return nil, ErrInvalidState
	}
	if booking.PayableAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Round, a two-decimal rupee amount must not lose a paisa to float
	// truncation.
	amountMinor := int64(math.Round(booking.PayableAmount * 100))
	order, err := s.gw.CreateOrder(ctx, amountMinor, paymentCurrency, booking.ID)
	if err != nil {
		log.Printf("[payment] order creation failed for booking %s: %v", booking.ID, err)
		return nil, ErrGatewayUnavailable
	}

	booking.PaymentMethod = domain.PaymentMethodOnline
	booking.PaymentStatus = domain.PaymentStatusPending
	booking.OrderID = order.ID
	booking.Status = domain.BookingStatusPaymentInitiated

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return &InitiateResponse{
		Booking:     booking,
		OrderID:     order.ID,
		AmountMinor: amountMinor,
		Currency:    paymentCurrency,
	}, nil
}

// VerifyRequest contains the gateway callback parameters.
type VerifyRequest struct {
	RequesterID string
	BookingID   string
	PaymentID   string
	Signature   string
}

// Verify checks the callback signature against the booking's order. A
// valid signature confirms the booking and starts claim dispatch; an
// invalid one marks the payment failed.
func (s *PaymentService) Verify(ctx context.Context, req VerifyRequest) (*domain.Booking, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetForRequester(ctx, req.RequesterID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPaymentInitiated || booking.OrderID == "" {
		return nil, ErrPaymentNotInitiated
	}

	if !gateway.VerifySignature(s.secret, booking.OrderID, req.PaymentID, req.Signature) {
		booking.PaymentStatus = domain.PaymentStatusFailed
		booking.Status = domain.BookingStatusPaymentFailed
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return nil, err
		}
		return nil, ErrSignatureInvalid
	}

	booking.PaymentID = req.PaymentID
	booking.PaymentSignature = req.Signature
	booking.PaymentStatus = domain.PaymentStatusSuccess
	booking.Status = domain.BookingStatusConfirmed

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.dispatch.Claim(ctx, booking); err != nil {
		// The booking is confirmed either way; dispatch retries can
		// pick it up from the pending list.
		log.Printf("[payment] claim dispatch failed for booking %s: %v", booking.ID, err)
	}

	return booking, nil
}

// ConfirmCashRequest contains the parameters for a cash confirmation.
type ConfirmCashRequest struct {
	RequesterID string
	BookingID   string
}

// ConfirmCash confirms a previewed booking for cash collection on
// delivery and starts claim dispatch.
func (s *PaymentService) ConfirmCash(ctx context.Context, req ConfirmCashRequest) (*domain.Booking, error) {
	if req.RequesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetForRequester(ctx, req.RequesterID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPaymentPreview {
		return nil, ErrInvalidState
	}

	booking.PaymentMethod = domain.PaymentMethodCash
	booking.PaymentStatus = domain.PaymentStatusPending
	booking.Status = domain.BookingStatusConfirmed

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.dispatch.Claim(ctx, booking); err != nil {
		log.Printf("[payment] claim dispatch failed for booking %s: %v", booking.ID, err)
	}

	return booking, nil
}
