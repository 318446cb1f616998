package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the dashboard WebSocket connections and fans duty events
// out to all of them.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Outbound events to fan out
	broadcast chan []byte

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (total: %d)", client.Username, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("🔴 [WEBSOCKET] Client disconnected: %s (remaining: %d)", client.Username, h.ClientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, client)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", client.Username)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast marshals an event and queues it for every connected client.
// Events look like {"type": "...", "data": {...}}.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		log.Println("⚠️ Broadcast queue full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
