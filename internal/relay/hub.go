package relay

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *safeConn) readMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *safeConn) close() { c.ws.Close() }

// Hub manages WebSocket connections: booking rooms with any number of
// subscribers, and one connection slot per carrier.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string][]*safeConn
	carriers map[string]*safeConn
}

// NewHub creates a relay hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string][]*safeConn),
		carriers: make(map[string]*safeConn),
	}
}

// HandleBookingWS upgrades the connection and subscribes it to a
// booking room.
func (h *Hub) HandleBookingWS(c *gin.Context) {
	bookingID := c.Param("id")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.rooms[bookingID] = append(h.rooms[bookingID], conn)
	h.mu.Unlock()

	log.Printf("[ws] client subscribed to booking %s", bookingID)

	// Block until the client disconnects
	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.removeFromRoom(bookingID, conn)
	conn.close()
	log.Printf("[ws] client left booking %s", bookingID)
}

// HandleCarrierWS upgrades the connection and registers it as the
// carrier's channel. A newer connection replaces an older one.
func (h *Hub) HandleCarrierWS(c *gin.Context) {
	carrierID := c.Param("id")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	if old := h.carriers[carrierID]; old != nil {
		old.close()
	}
	h.carriers[carrierID] = conn
	h.mu.Unlock()

	log.Printf("[ws] carrier %s connected", carrierID)

	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if h.carriers[carrierID] == conn {
		delete(h.carriers, carrierID)
	}
	h.mu.Unlock()
	conn.close()
	log.Printf("[ws] carrier %s disconnected", carrierID)
}

// NotifyCarrier sends a message to a carrier's channel.
func (h *Hub) NotifyCarrier(carrierID string, message any) {
	h.mu.RLock()
	conn := h.carriers[carrierID]
	h.mu.RUnlock()

	if conn == nil {
		return
	}
	if err := conn.writeJSON(message); err != nil {
		log.Printf("[ws] write error for carrier %s: %v", carrierID, err)
	}
}

// BroadcastToBooking sends a message to every subscriber of a booking
// room. Safe for concurrent calls, each safeConn serialises its own
// writes.
func (h *Hub) BroadcastToBooking(bookingID string, message any) {
	h.mu.RLock()
	conns := h.rooms[bookingID]
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.writeJSON(message); err != nil {
			log.Printf("[ws] write error: %v", err)
		}
	}
}

func (h *Hub) removeFromRoom(bookingID string, conn *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[bookingID]
	for i, c := range conns {
		if c == conn {
			h.rooms[bookingID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.rooms[bookingID]) == 0 {
		delete(h.rooms, bookingID)
	}
}

// Ensure Hub implements Relay.
var _ Relay = (*Hub)(nil)
