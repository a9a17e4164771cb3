package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Inbound messages from clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Message represents a message to broadcast. An empty UserID means
// every connected client receives it.
type Message struct {
	UserID string
	Data   interface{}
}

// SeatUpdate is pushed to all clients whenever a ride's availability
// changes, so ride lists can refresh without polling.
type SeatUpdate struct {
	Type           string `json:"type"` // always "seat_update"
	RideID         string `json:"ride_id"`
	SeatsAvailable int    `json:"seats_available"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (total: %d)", client.UserID, h.GetClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s (remaining: %d)", client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			if message.UserID != "" {
				if client, ok := h.clients[message.UserID]; ok {
					h.deliver(client, data)
				}
			} else {
				for _, client := range h.clients {
					h.deliver(client, data)
				}
			}
			h.mu.Unlock()
		}
	}
}

// deliver sends to one client, dropping the connection if its buffer is
// full. Caller must hold h.mu for writing.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		close(client.send)
		delete(h.clients, client.UserID)
		log.Printf("⚠️ Client buffer full, disconnecting: %s", client.UserID)
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	h.broadcast <- &Message{
		UserID: userID,
		Data:   data,
	}
}

// BroadcastToAll sends a message to every connected client
func (h *Hub) BroadcastToAll(data interface{}) {
	h.broadcast <- &Message{
		Data: data,
	}
}

// BroadcastSeatUpdate publishes a ride's new availability to all clients
func (h *Hub) BroadcastSeatUpdate(rideID string, seatsAvailable int) {
	h.BroadcastToAll(SeatUpdate{
		Type:           "seat_update",
		RideID:         rideID,
		SeatsAvailable: seatsAvailable,
	})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
