package domain

// Carrier represents a registered service provider (driver plus vehicle).
//
// The flags are mutually constrained: Available implies !OnTrip, and a
// carrier that goes offline loses availability as well.
type Carrier struct {
	ID            string
	Name          string
	Mobile        string
	VehicleClass  string
	VehicleNumber string

	Online    bool
	Available bool
	OnTrip    bool

	// Location is nil until the first location report.
	Location *Point
}
