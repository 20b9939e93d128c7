package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"porter/internal/service"
)

// PaymentHandler handles HTTP requests for booking payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate handles POST /v1/bookings/:id/payment/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	result, err := h.paymentService.Initiate(c.Request.Context(), service.InitiateRequest{
		RequesterID: c.GetHeader(requesterIDHeader),
		BookingID:   c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"booking":      toBookingResponse(result.Booking),
		"order_id":     result.OrderID,
		"amount_minor": result.AmountMinor,
		"currency":     result.Currency,
	})
}

// VerifyRequest is the HTTP request body for payment verification.
type VerifyRequest struct {
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// Verify handles POST /v1/bookings/:id/payment/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.paymentService.Verify(c.Request.Context(), service.VerifyRequest{
		RequesterID: c.GetHeader(requesterIDHeader),
		BookingID:   c.Param("id"),
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// ConfirmCash handles POST /v1/bookings/:id/payment/cash
func (h *PaymentHandler) ConfirmCash(c *gin.Context) {
	booking, err := h.paymentService.ConfirmCash(c.Request.Context(), service.ConfirmCashRequest{
		RequesterID: c.GetHeader(requesterIDHeader),
		BookingID:   c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
