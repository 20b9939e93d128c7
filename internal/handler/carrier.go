package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"porter/internal/service"
)

// CarrierHandler handles HTTP requests from carriers.
type CarrierHandler struct {
	carrierService *service.CarrierService
}

// NewCarrierHandler creates a new CarrierHandler.
func NewCarrierHandler(carrierService *service.CarrierService) *CarrierHandler {
	return &CarrierHandler{carrierService: carrierService}
}

// SetOnlineRequest is the HTTP request body for a presence change.
type SetOnlineRequest struct {
	Online bool `json:"online"`
}

// SetOnline handles PUT /v1/carriers/presence
func (h *CarrierHandler) SetOnline(c *gin.Context) {
	var req SetOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.carrierService.SetOnline(c.Request.Context(), c.GetHeader(carrierIDHeader), req.Online)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"online": req.Online})
}

// UpdateLocationRequest is the HTTP request body for a location report.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles PUT /v1/carriers/location
func (h *CarrierHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.carrierService.UpdateLocation(c.Request.Context(), c.GetHeader(carrierIDHeader), PointPayload{Lat: req.Lat, Lng: req.Lng}.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"updated": true})
}

// PendingRequests handles GET /v1/carriers/requests
func (h *CarrierHandler) PendingRequests(c *gin.Context) {
	bookings, err := h.carrierService.PendingRequests(c.Request.Context(), c.GetHeader(carrierIDHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// Accept handles POST /v1/carriers/requests/:id/accept
func (h *CarrierHandler) Accept(c *gin.Context) {
	booking, err := h.carrierService.Accept(c.Request.Context(), c.GetHeader(carrierIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Reject handles POST /v1/carriers/requests/:id/reject
func (h *CarrierHandler) Reject(c *gin.Context) {
	err := h.carrierService.Reject(c.Request.Context(), c.GetHeader(carrierIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"rejected": true})
}

// StartTrip handles POST /v1/carriers/trips/:id/start
func (h *CarrierHandler) StartTrip(c *gin.Context) {
	booking, err := h.carrierService.StartTrip(c.Request.Context(), c.GetHeader(carrierIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CompleteTrip handles POST /v1/carriers/trips/:id/complete
func (h *CarrierHandler) CompleteTrip(c *gin.Context) {
	booking, err := h.carrierService.CompleteTrip(c.Request.Context(), c.GetHeader(carrierIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// TripSummary is one settled trip in the earnings response.
type TripSummary struct {
	BookingID      string  `json:"booking_id"`
	FinalFare      float64 `json:"final_fare"`
	Commission     float64 `json:"commission"`
	CarrierEarning float64 `json:"carrier_earning"`
	CompletedAt    string  `json:"completed_at"`
}

// Earnings handles GET /v1/carriers/earnings
func (h *CarrierHandler) Earnings(c *gin.Context) {
	result, err := h.carrierService.Earnings(c.Request.Context(), c.GetHeader(carrierIDHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	trips := make([]TripSummary, 0, len(result.Trips))
	for _, trip := range result.Trips {
		trips = append(trips, TripSummary{
			BookingID:      trip.ID,
			FinalFare:      trip.FinalFare,
			Commission:     trip.PlatformCommission,
			CarrierEarning: trip.CarrierEarning,
			CompletedAt:    trip.TripEndedAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, gin.H{
		"total_trips":      result.TotalTrips,
		"gross_fare":       result.GrossFare,
		"total_commission": result.TotalCommission,
		"net_earning":      result.NetEarning,
		"wallet_balance":   result.WalletBalance,
		"monthly":          result.Monthly,
		"trips":            trips,
	})
}
