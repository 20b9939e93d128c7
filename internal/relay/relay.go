package relay

// Relay pushes server-initiated messages to connected clients: booking
// rooms for requesters tracking a trip, and per-carrier channels for
// dispatch notifications.
type Relay interface {
	// NotifyCarrier sends a message to a carrier's channel. A carrier
	// without an open connection misses the push; pending requests stay
	// pollable, so delivery is best effort.
	NotifyCarrier(carrierID string, message any)

	// BroadcastToBooking sends a message to every subscriber of a
	// booking room.
	BroadcastToBooking(bookingID string, message any)
}
