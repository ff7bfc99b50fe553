package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/schedulrhq/schedulr/models"
)

// BookingEvent is pushed to a host's connected dashboards when one of their
// bookings changes.
type BookingEvent struct {
	Type    string          `json:"type"` // booking_created | booking_cancelled
	Booking *models.Booking `json:"booking"`
}

type Client struct {
	HostID uuid.UUID
	Conn   *websocket.Conn
}

type hostEvent struct {
	hostID uuid.UUID
	event  BookingEvent
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan hostEvent, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Dashboard connected: %s", client.HostID)
			clientsMu.Lock()
			clients[client.HostID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Dashboard disconnected: %s", client.HostID)
			clientsMu.Lock()
			if conn, ok := clients[client.HostID]; ok && conn == client.Conn {
				delete(clients, client.HostID)
			}
			clientsMu.Unlock()
		case ev := <-events:
			clientsMu.RLock()
			conn, ok := clients[ev.hostID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(ev.event); err != nil {
				log.Printf("Error pushing event to host %s: %v", ev.hostID, err)
				conn.Close()
				clientsMu.Lock()
				if cur, ok := clients[ev.hostID]; ok && cur == conn {
					delete(clients, ev.hostID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// PublishBooking hands a booking event to the hub without blocking the
// caller. If the hub is backed up the event is dropped; the dashboard is a
// convenience view, not a system of record.
func PublishBooking(eventType string, booking *models.Booking) {
	select {
	case events <- hostEvent{hostID: booking.HostID, event: BookingEvent{Type: eventType, Booking: booking}}:
	default:
		log.Printf("Dashboard event queue full, dropping %s for host %s", eventType, booking.HostID)
	}
}
