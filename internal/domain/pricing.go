package domain

// Pricing is the rate card for a (city, vehicle class) pair.
// At most one active record exists per pair.
type Pricing struct {
	ID                string
	City              string
	VehicleClass      string
	BaseFare          float64
	PerKmRate         float64
	CommissionPercent float64
	Active            bool
}

// City is a serviced city. Bookings require the resolved city to be active.
type City struct {
	Name   string
	Active bool
}

// VehicleClass is a bookable vehicle category (Bike, MiniTruck, ...).
type VehicleClass struct {
	Name   string
	Active bool
}
