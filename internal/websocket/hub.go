package websocket

import (
	"sync"
)

// Hub maintains active WebSocket connections and broadcasts record change
// events to every connected dashboard client.
type Hub struct {
	clients map[*Client]bool

	// Outbound events
	broadcast chan *Event

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// Event represents a record change notification
type Event struct {
	Type    string `json:"type"` // created, updated, imported, screenshots_changed
	Variant string `json:"variant"`
	ID      string `json:"id,omitempty"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
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
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- event:
				default:
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						close(client.send)
						delete(h.clients, client)
					}
					h.mu.Unlock()
				}
			}
		}
	}
}

// Publish sends a change event to every connected client. Satisfies the
// service layer's Notifier interface.
func (h *Hub) Publish(eventType, variant, id string) {
	h.broadcast <- &Event{
		Type:    eventType,
		Variant: variant,
		ID:      id,
	}
}

// Register registers a new client connection
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a client connection
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
