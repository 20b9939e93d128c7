package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"porter/internal/handler"
	"porter/internal/middleware"
	"porter/internal/relay"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	CarrierHandler *handler.CarrierHandler
	WalletHandler  *handler.WalletHandler
	RelayHub       *relay.Hub
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Live tracking.
	ws := router.Group("/ws")
	{
		ws.GET("/bookings/:id", deps.RelayHub.HandleBookingWS)
		ws.GET("/carriers/:id", deps.RelayHub.HandleCarrierWS)
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Booking routes (requester side).
		bookings := v1.Group("/bookings")
		{
			bookings.POST("/route-check", deps.BookingHandler.RouteCheck)
			bookings.POST("/estimate", deps.BookingHandler.Estimate)
			bookings.POST("", deps.BookingHandler.SelectVehicle)
			bookings.POST("/instant", deps.BookingHandler.RequestInstant)
			bookings.GET("/latest", deps.BookingHandler.Latest)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.GET("/:id/status", deps.BookingHandler.GetStatus)
			bookings.GET("/:id/carrier-location", deps.BookingHandler.CarrierLocation)
			bookings.POST("/:id/payment-preview", deps.BookingHandler.PaymentPreview)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)

			// Payment routes.
			bookings.POST("/:id/payment/initiate", deps.PaymentHandler.Initiate)
			bookings.POST("/:id/payment/verify", deps.PaymentHandler.Verify)
			bookings.POST("/:id/payment/cash", deps.PaymentHandler.ConfirmCash)
		}

		// Carrier routes.
		carriers := v1.Group("/carriers")
		{
			carriers.PUT("/presence", deps.CarrierHandler.SetOnline)
			carriers.PUT("/location", deps.CarrierHandler.UpdateLocation)
			carriers.GET("/requests", deps.CarrierHandler.PendingRequests)
			carriers.POST("/requests/:id/accept", deps.CarrierHandler.Accept)
			carriers.POST("/requests/:id/reject", deps.CarrierHandler.Reject)
			carriers.POST("/trips/:id/start", deps.CarrierHandler.StartTrip)
			carriers.POST("/trips/:id/complete", deps.CarrierHandler.CompleteTrip)
			carriers.GET("/earnings", deps.CarrierHandler.Earnings)

			// Wallet routes.
			carriers.GET("/wallet", deps.WalletHandler.Summary)
			carriers.PUT("/wallet/bank-details", deps.WalletHandler.SetBankDetails)
			carriers.POST("/wallet/withdrawals", deps.WalletHandler.RequestWithdrawal)
			carriers.GET("/wallet/withdrawals", deps.WalletHandler.WithdrawalHistory)
		}
	}

	return router
}
