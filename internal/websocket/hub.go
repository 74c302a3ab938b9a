package websocket

import (
	"log"
	"sync"
)

// Hub maintains the set of active clients and routes outbound events to them
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool

	// Outbound events for connected clients
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// Event is a message pushed to websocket clients
type Event struct {
	UserID  string                 `json:"user_id,omitempty"`
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			isFirst := len(h.clients[client.UserID]) == 0
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("Client registered: UserID=%s, connections: %d", client.UserID, len(h.clients[client.UserID]))

			// Announce presence only on the first connection
			if isFirst {
				h.broadcastPresence(client.UserID, true)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			wasLast := false
			if clients, ok := h.clients[client.UserID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.UserID)
						wasLast = true
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Client unregistered: UserID=%s", client.UserID)

			if wasLast {
				h.broadcastPresence(client.UserID, false)
			}

		case event := <-h.broadcast:
			// Full lock: stalled clients are evicted from the map below
			h.mu.Lock()
			if event.UserID != "" {
				// Send to every connection of a single user
				if clients, ok := h.clients[event.UserID]; ok {
					for client := range clients {
						select {
						case client.send <- event:
						default:
							close(client.send)
							delete(clients, client)
						}
					}
				}
			} else {
				// Send to all connected clients
				for _, clients := range h.clients {
					for client := range clients {
						select {
						case client.send <- event:
						default:
							close(client.send)
							delete(clients, client)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes a typed event to every connection of a single user
func (h *Hub) Send(userID, eventType string, payload map[string]interface{}) {
	event := &Event{
		UserID:  userID,
		Type:    eventType,
		Payload: payload,
	}

	select {
	case h.broadcast <- event:
	default:
		log.Printf("Broadcast channel full, dropping %s event for user: %s", eventType, userID)
	}
}

// BroadcastToUser sends a notification event to a specific user
func (h *Hub) BroadcastToUser(userID string, payload map[string]interface{}) {
	h.Send(userID, "notification", payload)
}

// BroadcastToAll sends an event to all connected clients
func (h *Hub) BroadcastToAll(payload map[string]interface{}) {
	event := &Event{
		Type:    "broadcast",
		Payload: payload,
	}

	select {
	case h.broadcast <- event:
	default:
		log.Printf("Broadcast channel full, dropping broadcast event")
	}
}

// IsOnline reports whether the user has at least one open connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// GetOnlineUserIDs returns all currently connected user IDs
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for uid := range h.clients {
		ids = append(ids, uid)
	}
	return ids
}

func (h *Hub) broadcastPresence(userID string, online bool) {
	h.BroadcastToAll(map[string]interface{}{
		"type":    "user_presence",
		"user_id": userID,
		"online":  online,
	})
}
