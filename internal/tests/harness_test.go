package tests

import (
	"porter/internal/domain"
	"porter/internal/gateway"
	"porter/internal/redis"
	"porter/internal/service"
)

// testEnv wires every service against in-memory mocks.
type testEnv struct {
	bookingRepo    *MockBookingRepository
	carrierRepo    *MockCarrierRepository
	catalogRepo    *MockCatalogRepository
	walletRepo     *MockWalletRepository
	withdrawalRepo *MockWithdrawalRepository
	locationStore  *MockLocationStore
	lockStore      *MockLockStore
	router         *MockRouter
	relay          *MockRelay
	gw             *gateway.MockGateway

	catalog  *service.CatalogService
	dispatch *service.DispatchService
	booking  *service.BookingService
	payment  *service.PaymentService
	carrier  *service.CarrierService
	wallet   *service.WalletService
}

const testGatewaySecret = "test_gateway_secret"

// newTestEnv builds a full service graph over an active Mumbai catalog
// with Bike pricing (base 50, 10/km, 20% commission).
func newTestEnv() *testEnv {
	env := &testEnv{
		bookingRepo:    NewMockBookingRepository(),
		carrierRepo:    NewMockCarrierRepository(),
		catalogRepo:    NewMockCatalogRepository(),
		walletRepo:     NewMockWalletRepository(),
		withdrawalRepo: NewMockWithdrawalRepository(),
		locationStore:  NewMockLocationStore(),
		lockStore:      NewMockLockStore(),
		router:         NewMockRouter(12.5, 35, "Mumbai"),
		relay:          NewMockRelay(),
		gw:             gateway.NewMockGateway(),
	}

	env.catalogRepo.AddCity(&domain.City{Name: "Mumbai", Active: true})
	env.catalogRepo.AddVehicleClass(&domain.VehicleClass{Name: "Bike", Active: true})
	env.catalogRepo.AddVehicleClass(&domain.VehicleClass{Name: "MiniTruck", Active: true})
	env.catalogRepo.AddPricing(&domain.Pricing{
		ID:                "p1",
		City:              "Mumbai",
		VehicleClass:      "Bike",
		BaseFare:          50,
		PerKmRate:         10,
		CommissionPercent: 20,
		Active:            true,
	})

	env.catalog = service.NewCatalogService(env.catalogRepo, nil)
	env.dispatch = service.NewDispatchService(env.bookingRepo, env.carrierRepo, env.locationStore, env.lockStore, env.relay)
	env.booking = service.NewBookingService(env.bookingRepo, env.catalog, env.router, env.dispatch, env.gw)
	env.payment = service.NewPaymentService(env.bookingRepo, env.gw, testGatewaySecret, env.dispatch)
	env.carrier = service.NewCarrierService(env.carrierRepo, env.bookingRepo, env.walletRepo, env.catalog, env.locationStore, env.router, env.relay, env.dispatch)
	env.wallet = service.NewWalletService(env.walletRepo, env.withdrawalRepo)

	return env
}

// addOnlineCarrier registers an online, available Bike carrier at the
// given position.
func (env *testEnv) addOnlineCarrier(id string, lat, lng float64) {
	env.carrierRepo.AddCarrier(&domain.Carrier{
		ID:           id,
		Name:         "Carrier " + id,
		Mobile:       "99999" + id,
		VehicleClass: "Bike",
		Online:       true,
		Available:    true,
		Location:     &domain.Point{Lat: lat, Lng: lng},
	})
	env.locationStore.AddCarrierLocation(redis.CarrierLocation{CarrierID: id, Lat: lat, Lng: lng})
}
