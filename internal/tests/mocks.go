package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"porter/internal/domain"
	"porter/internal/redis"
	"porter/internal/repository"
	"porter/internal/routing"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
// The conditional updates take the mutex for check and mutation
// together, mirroring the single-statement semantics of the real store.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount        int32
	UpdateCallCount        int32
	AssignCarrierCallCount int32
	FinalizeCallCount      int32

	// Error injection
	CreateError   error
	UpdateError   error
	FinalizeError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetForRequester(ctx context.Context, requesterID, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok || b.RequesterID != requesterID {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) LatestForRequester(ctx context.Context, requesterID string, status domain.BookingStatus) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Booking
	for _, b := range m.bookings {
		if b.RequesterID != requesterID || b.Status != status {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	copy := *latest
	return &copy, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *MockBookingRepository) AssignCarrier(ctx context.Context, bookingID, carrierID string) error {
	atomic.AddInt32(&m.AssignCarrierCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != domain.BookingStatusConfirmed || b.CarrierID != "" || b.HasRejected(carrierID) {
		return repository.ErrConflict
	}
	b.CarrierID = carrierID
	b.Status = domain.BookingStatusDriverAssigned
	return nil
}

func (m *MockBookingRepository) AddRejectedCarrier(ctx context.Context, bookingID, carrierID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if !b.HasRejected(carrierID) {
		b.RejectedCarriers = append(b.RejectedCarriers, carrierID)
	}
	return nil
}

func (m *MockBookingRepository) StartTrip(ctx context.Context, bookingID, carrierID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != domain.BookingStatusDriverAssigned || b.CarrierID != carrierID {
		return repository.ErrConflict
	}
	b.Status = domain.BookingStatusTripStarted
	b.TripStartedAt = at
	return nil
}

func (m *MockBookingRepository) Finalize(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.FinalizeCallCount, 1)
	if m.FinalizeError != nil {
		return m.FinalizeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != domain.BookingStatusTripStarted || stored.CarrierID != b.CarrierID {
		return repository.ErrConflict
	}
	stored.Status = domain.BookingStatusTripCompleted
	stored.DistanceKm = b.DistanceKm
	stored.DurationMin = b.DurationMin
	stored.FinalFare = b.FinalFare
	stored.PlatformCommission = b.PlatformCommission
	stored.CarrierEarning = b.CarrierEarning
	stored.TripEndedAt = b.TripEndedAt
	stored.FareFinalizedAt = b.FareFinalizedAt
	return nil
}

func (m *MockBookingRepository) PendingForCarrier(ctx context.Context, vehicleClass, carrierID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.Status != domain.BookingStatusConfirmed || b.VehicleClass != vehicleClass {
			continue
		}
		if b.CarrierID != "" || b.HasRejected(carrierID) {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) ActiveForCarrier(ctx context.Context, carrierID string, status domain.BookingStatus) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.CarrierID == carrierID && b.Status == status {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) CompletedForCarrier(ctx context.Context, carrierID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.CarrierID == carrierID && !b.FareFinalizedAt.IsZero() {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TripEndedAt.After(result[j].TripEndedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) UpdateProgress(ctx context.Context, bookingID string, remainingKm float64, etaMin int, last domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	b.RemainingDistanceKm = remainingKm
	b.DropEtaMin = etaMin
	b.LastCarrierLocation = &domain.Point{Lat: last.Lat, Lng: last.Lng}
	return nil
}

func (m *MockBookingRepository) UpdateApproach(ctx context.Context, bookingID string, approachKm float64, etaMin int, last domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	b.CarrierToPickupKm = approachKm
	b.CarrierToPickupEtaMin = etaMin
	b.LastCarrierLocation = &domain.Point{Lat: last.Lat, Lng: last.Lng}
	return nil
}

// ──────────────────────────────────────────────
// MOCK CARRIER REPOSITORY
// ──────────────────────────────────────────────

// MockCarrierRepository is a mock implementation of CarrierRepository.
type MockCarrierRepository struct {
	mu       sync.RWMutex
	carriers map[string]*domain.Carrier

	// Counters for verification
	SetEngagementCallCount int32

	// Error injection
	SetEngagementError error
}

// NewMockCarrierRepository creates a new mock carrier repository.
func NewMockCarrierRepository() *MockCarrierRepository {
	return &MockCarrierRepository{
		carriers: make(map[string]*domain.Carrier),
	}
}

// AddCarrier adds a carrier to the mock repository.
func (m *MockCarrierRepository) AddCarrier(c *domain.Carrier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carriers[c.ID] = c
}

// GetCarrier returns a carrier for test assertions.
func (m *MockCarrierRepository) GetCarrier(id string) *domain.Carrier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carriers[id]
}

func (m *MockCarrierRepository) Create(ctx context.Context, c *domain.Carrier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carriers[c.ID] = c
	return nil
}

func (m *MockCarrierRepository) GetByID(ctx context.Context, id string) (*domain.Carrier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carriers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (m *MockCarrierRepository) SetOnline(ctx context.Context, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Online = online
	c.Available = online && !c.OnTrip
	return nil
}

func (m *MockCarrierRepository) SetEngagement(ctx context.Context, id string, available, onTrip bool) error {
	atomic.AddInt32(&m.SetEngagementCallCount, 1)
	if m.SetEngagementError != nil {
		return m.SetEngagementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Available = available
	c.OnTrip = onTrip
	return nil
}

func (m *MockCarrierRepository) UpdateLocation(ctx context.Context, id string, loc domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Location = &domain.Point{Lat: loc.Lat, Lng: loc.Lng}
	return nil
}

func (m *MockCarrierRepository) ListEligible(ctx context.Context, vehicleClass string, excluded []string) ([]*domain.Carrier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var result []*domain.Carrier
	for _, c := range m.carriers {
		if !c.Online || !c.Available || c.OnTrip {
			continue
		}
		if c.VehicleClass != vehicleClass || skip[c.ID] {
			continue
		}
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CATALOG REPOSITORY
// ──────────────────────────────────────────────

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mu      sync.RWMutex
	cities  map[string]*domain.City
	classes []*domain.VehicleClass
	pricing map[string]*domain.Pricing // key: city + "/" + class
}

// NewMockCatalogRepository creates a new mock catalog repository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		cities:  make(map[string]*domain.City),
		pricing: make(map[string]*domain.Pricing),
	}
}

// AddCity adds a city to the catalog.
func (m *MockCatalogRepository) AddCity(c *domain.City) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities[c.Name] = c
}

// AddVehicleClass adds a vehicle class to the catalog.
func (m *MockCatalogRepository) AddVehicleClass(vc *domain.VehicleClass) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = append(m.classes, vc)
}

// AddPricing adds a pricing record to the catalog.
func (m *MockCatalogRepository) AddPricing(p *domain.Pricing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pricing[p.City+"/"+p.VehicleClass] = p
}

func (m *MockCatalogRepository) CityByName(ctx context.Context, name string) (*domain.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cities[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (m *MockCatalogRepository) ActiveVehicleClasses(ctx context.Context) ([]*domain.VehicleClass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.VehicleClass
	for _, vc := range m.classes {
		if vc.Active {
			copy := *vc
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockCatalogRepository) ActivePricing(ctx context.Context, city, vehicleClass string) (*domain.Pricing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pricing[city+"/"+vehicleClass]
	if !ok || !p.Active {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
// Debit checks and decrements under one lock, like the real
// compare-and-decrement statement.
type MockWalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet

	// Counters for verification
	CreditCallCount int32
	DebitCallCount  int32

	// Error injection
	CreditError error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(w *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.CarrierID] = w
}

// Balance returns a wallet balance for test assertions.
func (m *MockWalletRepository) Balance(carrierID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[carrierID]; ok {
		return w.Balance
	}
	return 0
}

func (m *MockWalletRepository) Get(ctx context.Context, carrierID string) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[carrierID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (m *MockWalletRepository) Credit(ctx context.Context, carrierID string, amount float64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[carrierID]
	if !ok {
		w = &domain.Wallet{CarrierID: carrierID}
		m.wallets[carrierID] = w
	}
	w.Balance += amount
	return nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, carrierID string, amount float64) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[carrierID]
	if !ok || w.Balance < amount {
		return repository.ErrConflict
	}
	w.Balance -= amount
	return nil
}

func (m *MockWalletRepository) SetBankDetails(ctx context.Context, wallet *domain.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[wallet.CarrierID]
	if !ok {
		w = &domain.Wallet{CarrierID: wallet.CarrierID}
		m.wallets[wallet.CarrierID] = w
	}
	w.BankName = wallet.BankName
	w.BankAccountNumber = wallet.BankAccountNumber
	w.AccountHolderName = wallet.AccountHolderName
	w.IFSCCode = wallet.IFSCCode
	w.IdentityLinked = wallet.IdentityLinked
	return nil
}

// ──────────────────────────────────────────────
// MOCK WITHDRAWAL REPOSITORY
// ──────────────────────────────────────────────

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	mu          sync.Mutex
	withdrawals []*domain.Withdrawal

	// Error injection
	CreateError error
}

// NewMockWithdrawalRepository creates a new mock withdrawal repository.
func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *w
	m.withdrawals = append(m.withdrawals, &copy)
	return nil
}

func (m *MockWithdrawalRepository) ListByCarrier(ctx context.Context, carrierID string) ([]*domain.Withdrawal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.CarrierID == carrierID {
			copy := *w
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}

// Count returns the number of recorded withdrawals.
func (m *MockWithdrawalRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.withdrawals)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStore.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations []redis.CarrierLocation

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	UpdateLocationError     error
	FindNearbyCarriersError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make([]redis.CarrierLocation, 0),
	}
}

// AddCarrierLocation adds a carrier location to the mock store.
func (m *MockLocationStore) AddCarrierLocation(loc redis.CarrierLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, carrierID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.CarrierID == carrierID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.CarrierLocation{
		CarrierID: carrierID,
		Lat:       lat,
		Lng:       lng,
	})
	return nil
}

func (m *MockLocationStore) FindNearbyCarriers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.CarrierLocation, error) {
	if m.FindNearbyCarriersError != nil {
		return nil, m.FindNearbyCarriersError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return all locations (mock doesn't do real geo filtering).
	result := make([]redis.CarrierLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, carrierID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.CarrierID == carrierID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation checks if a carrier location exists.
func (m *MockLocationStore) HasLocation(carrierID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.CarrierID == carrierID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDispatchLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:dispatch:" + bookingID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseDispatchLock(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:dispatch:"+bookingID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK ROUTER
// ──────────────────────────────────────────────

// MockRouter is a mock implementation of routing.Router. It returns a
// fixed route and city unless overridden per test.
type MockRouter struct {
	mu sync.Mutex

	Route *routing.Route
	City  string

	// Error injection
	RouteError error
	CityError  error

	// Counters
	RouteCallCount int32
}

// NewMockRouter creates a mock router with the given defaults.
func NewMockRouter(distanceKm float64, durationMin int, city string) *MockRouter {
	return &MockRouter{
		Route: &routing.Route{DistanceKm: distanceKm, DurationMin: durationMin},
		City:  city,
	}
}

func (m *MockRouter) DistanceDuration(ctx context.Context, originLat, originLng, destLat, destLng float64) (*routing.Route, error) {
	atomic.AddInt32(&m.RouteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RouteError != nil {
		return nil, m.RouteError
	}
	copy := *m.Route
	return &copy, nil
}

func (m *MockRouter) CityForPoint(ctx context.Context, lat, lng float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CityError != nil {
		return "", m.CityError
	}
	return m.City, nil
}

// ──────────────────────────────────────────────
// MOCK RELAY
// ──────────────────────────────────────────────

// MockRelay records pushed messages for assertions.
type MockRelay struct {
	mu sync.Mutex

	CarrierNotices map[string][]any
	RoomMessages   map[string][]any
}

// NewMockRelay creates a new mock relay.
func NewMockRelay() *MockRelay {
	return &MockRelay{
		CarrierNotices: make(map[string][]any),
		RoomMessages:   make(map[string][]any),
	}
}

func (m *MockRelay) NotifyCarrier(carrierID string, message any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CarrierNotices[carrierID] = append(m.CarrierNotices[carrierID], message)
}

func (m *MockRelay) BroadcastToBooking(bookingID string, message any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoomMessages[bookingID] = append(m.RoomMessages[bookingID], message)
}

// NotifiedCarriers returns how many distinct carriers got a notice.
func (m *MockRelay) NotifiedCarriers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CarrierNotices)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
