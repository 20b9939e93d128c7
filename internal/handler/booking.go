package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"porter/internal/domain"
	"porter/internal/service"
)

// Identity headers. Authentication happens at the edge; these carry the
// already-authenticated principal.
const (
	requesterIDHeader = "X-Requester-ID"
	carrierIDHeader   = "X-Carrier-ID"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// PointPayload is a latitude/longitude pair in request bodies.
type PointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p PointPayload) toDomain() domain.Point {
	return domain.Point{Lat: p.Lat, Lng: p.Lng}
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID                 string       `json:"id"`
	RequesterID        string       `json:"requester_id"`
	CarrierID          string       `json:"carrier_id,omitempty"`
	City               string       `json:"city"`
	VehicleClass       string       `json:"vehicle_class"`
	Pickup             PointPayload `json:"pickup"`
	Drop               PointPayload `json:"drop"`
	DistanceKm         float64      `json:"distance_km"`
	DurationMin        int          `json:"duration_min"`
	TripType           string       `json:"trip_type"`
	BaseFare           float64      `json:"base_fare"`
	LoadingCharge      float64      `json:"loading_charge"`
	Discount           float64      `json:"discount"`
	PickupCharge       float64      `json:"pickup_charge"`
	PayableAmount      float64      `json:"payable_amount"`
	FinalFare          float64      `json:"final_fare,omitempty"`
	PlatformCommission float64      `json:"platform_commission,omitempty"`
	CarrierEarning     float64      `json:"carrier_earning,omitempty"`
	PaymentMethod      string       `json:"payment_method,omitempty"`
	PaymentStatus      string       `json:"payment_status"`
	OrderID            string       `json:"order_id,omitempty"`
	Status             string       `json:"status"`
	CreatedAt          string       `json:"created_at"`
	CancelledAt        string       `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID,
		RequesterID:        b.RequesterID,
		CarrierID:          b.CarrierID,
		City:               b.City,
		VehicleClass:       b.VehicleClass,
		Pickup:             PointPayload{Lat: b.Pickup.Lat, Lng: b.Pickup.Lng},
		Drop:               PointPayload{Lat: b.Drop.Lat, Lng: b.Drop.Lng},
		DistanceKm:         b.DistanceKm,
		DurationMin:        b.DurationMin,
		TripType:           string(b.TripType),
		BaseFare:           b.BaseFare,
		LoadingCharge:      b.LoadingCharge,
		Discount:           b.Discount,
		PickupCharge:       b.PickupCharge,
		PayableAmount:      b.PayableAmount,
		FinalFare:          b.FinalFare,
		PlatformCommission: b.PlatformCommission,
		CarrierEarning:     b.CarrierEarning,
		PaymentMethod:      string(b.PaymentMethod),
		PaymentStatus:      string(b.PaymentStatus),
		OrderID:            b.OrderID,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}
	if !b.CancelledAt.IsZero() {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

// RouteCheckRequest is the HTTP request body for a serviceability check.
type RouteCheckRequest struct {
	Pickup PointPayload `json:"pickup"`
	Drop   PointPayload `json:"drop"`
}

// RouteCheck handles POST /v1/bookings/route-check
func (h *BookingHandler) RouteCheck(c *gin.Context) {
	var req RouteCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bookingService.RouteCheck(c.Request.Context(), service.RouteCheckRequest{
		Pickup: req.Pickup.toDomain(),
		Drop:   req.Drop.toDomain(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"city":         result.City,
		"distance_km":  result.DistanceKm,
		"duration_min": result.DurationMin,
		"trip_type":    string(result.TripType),
	})
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	Pickup PointPayload `json:"pickup"`
	Drop   PointPayload `json:"drop"`
}

// ClassEstimateResponse is one vehicle class quote. Fare is null when
// the class has no pricing in the city.
type ClassEstimateResponse struct {
	VehicleClass string   `json:"vehicle_class"`
	Fare         *float64 `json:"fare"`
}

// Estimate handles POST /v1/bookings/estimate
func (h *BookingHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bookingService.Estimate(c.Request.Context(), service.EstimateRequest{
		Pickup: req.Pickup.toDomain(),
		Drop:   req.Drop.toDomain(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	estimates := make([]ClassEstimateResponse, 0, len(result.Estimates))
	for _, e := range result.Estimates {
		estimates = append(estimates, ClassEstimateResponse{
			VehicleClass: e.VehicleClass,
			Fare:         e.Fare,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{
		"city":         result.City,
		"distance_km":  result.DistanceKm,
		"duration_min": result.DurationMin,
		"trip_type":    string(result.TripType),
		"estimates":    estimates,
	})
}

// SelectVehicleRequest is the HTTP request body for vehicle selection.
type SelectVehicleRequest struct {
	Pickup       PointPayload `json:"pickup"`
	Drop         PointPayload `json:"drop"`
	VehicleClass string       `json:"vehicle_class"`
	LabourCount  int          `json:"labour_count"`
}

// SelectVehicle handles POST /v1/bookings
func (h *BookingHandler) SelectVehicle(c *gin.Context) {
	var req SelectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.SelectVehicle(c.Request.Context(), service.SelectVehicleRequest{
		RequesterID:  c.GetHeader(requesterIDHeader),
		Pickup:       req.Pickup.toDomain(),
		Drop:         req.Drop.toDomain(),
		VehicleClass: req.VehicleClass,
		LabourCount:  req.LabourCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// PaymentPreviewRequest is the HTTP request body for a payment preview.
type PaymentPreviewRequest struct {
	Discount float64 `json:"discount"`
}

// PaymentPreview handles POST /v1/bookings/:id/payment-preview
func (h *BookingHandler) PaymentPreview(c *gin.Context) {
	var req PaymentPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.PaymentPreview(c.Request.Context(), service.PaymentPreviewRequest{
		RequesterID: c.GetHeader(requesterIDHeader),
		BookingID:   c.Param("id"),
		Discount:    req.Discount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// RequestInstantRequest is the HTTP request body for an instant booking.
type RequestInstantRequest struct {
	Pickup       PointPayload `json:"pickup"`
	Drop         PointPayload `json:"drop"`
	VehicleClass string       `json:"vehicle_class"`
	LabourCount  int          `json:"labour_count"`
}

// RequestInstant handles POST /v1/bookings/instant
func (h *BookingHandler) RequestInstant(c *gin.Context) {
	var req RequestInstantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.RequestInstant(c.Request.Context(), service.RequestInstantRequest{
		RequesterID:  c.GetHeader(requesterIDHeader),
		Pickup:       req.Pickup.toDomain(),
		Drop:         req.Drop.toDomain(),
		VehicleClass: req.VehicleClass,
		LabourCount:  req.LabourCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Latest handles GET /v1/bookings/latest
func (h *BookingHandler) Latest(c *gin.Context) {
	status := domain.BookingStatus(c.Query("status"))

	booking, err := h.bookingService.Latest(c.Request.Context(), c.GetHeader(requesterIDHeader), status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.GetHeader(requesterIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetStatus handles GET /v1/bookings/:id/status
func (h *BookingHandler) GetStatus(c *gin.Context) {
	status, err := h.bookingService.GetStatus(c.Request.Context(), c.GetHeader(requesterIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": string(status)})
}

// CarrierLocation handles GET /v1/bookings/:id/carrier-location
func (h *BookingHandler) CarrierLocation(c *gin.Context) {
	result, err := h.bookingService.CarrierLocation(c.Request.Context(), c.GetHeader(requesterIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"approach_km":           result.ApproachKm,
		"approach_eta_min":      result.ApproachEtaMin,
		"remaining_distance_km": result.RemainingDistanceKm,
		"drop_eta_min":          result.DropEtaMin,
	}
	if result.Location != nil {
		resp["location"] = PointPayload{Lat: result.Location.Lat, Lng: result.Location.Lng}
	}

	respondJSON(c, http.StatusOK, resp)
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookingService.Cancel(c.Request.Context(), c.GetHeader(requesterIDHeader), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
