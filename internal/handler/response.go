package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"porter/internal/repository"
	"porter/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRequesterID),
		errors.Is(err, service.ErrInvalidCarrierID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrBookingNotAvailable),
		errors.Is(err, service.ErrCarrierBusy),
		errors.Is(err, service.ErrPaymentNotInitiated),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotAssignedCarrier),
		errors.Is(err, service.ErrCarrierOffline),
		errors.Is(err, service.ErrPayoutNotConfigured):
		return http.StatusForbidden

	// Payment verification failure
	case errors.Is(err, service.ErrSignatureInvalid):
		return http.StatusUnprocessableEntity

	// Serviceability
	case errors.Is(err, service.ErrCityNotServiced),
		errors.Is(err, service.ErrPricingMissing),
		errors.Is(err, service.ErrNoCarrierAvailable):
		return http.StatusServiceUnavailable

	// Upstream failures
	case errors.Is(err, service.ErrGatewayUnavailable),
		errors.Is(err, service.ErrUpstreamUnavailable),
		errors.Is(err, service.ErrRefundFailed):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
