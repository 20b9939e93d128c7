package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"porter/internal/app"
	"porter/internal/config"
	"porter/internal/gateway"
	"porter/internal/handler"
	internalRedis "porter/internal/redis"
	"porter/internal/relay"
	"porter/internal/repository/postgres"
	"porter/internal/routing"
	"porter/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, err := wireServer(db, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	bookingRepo := postgres.NewBookingRepository(db)
	carrierRepo := postgres.NewCarrierRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	withdrawalRepo := postgres.NewWithdrawalRepository(db)

	// Initialize collaborators.
	router, err := routing.NewGoogleRouter(cfg.GoogleMaps.APIKey)
	if err != nil {
		return nil, err
	}

	var gw gateway.Gateway
	if cfg.Razorpay.KeyID != "" {
		gw = gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		log.Println("Razorpay key not configured, using mock gateway")
		gw = gateway.NewMockGateway()
	}

	hub := relay.NewHub()

	// Initialize services.
	catalogService := service.NewCatalogService(catalogRepo, cacheStore)
	dispatchService := service.NewDispatchService(bookingRepo, carrierRepo, locationStore, lockStore, hub)
	bookingService := service.NewBookingService(bookingRepo, catalogService, router, dispatchService, gw)
	paymentService := service.NewPaymentService(bookingRepo, gw, cfg.Razorpay.KeySecret, dispatchService)
	carrierService := service.NewCarrierService(carrierRepo, bookingRepo, walletRepo, catalogService, locationStore, router, hub, dispatchService)
	walletService := service.NewWalletService(walletRepo, withdrawalRepo)

	// Initialize handlers.
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	carrierHandler := handler.NewCarrierHandler(carrierService)
	walletHandler := handler.NewWalletHandler(walletService)

	// Create router.
	engine := app.NewRouter(app.RouterDeps{
		BookingHandler: bookingHandler,
		PaymentHandler: paymentHandler,
		CarrierHandler: carrierHandler,
		WalletHandler:  walletHandler,
		RelayHub:       hub,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
