package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is a push notification to connected UI clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Event types pushed to clients.
const (
	EventInboxChanged = "inbox_changed"
	EventSendResults  = "send_results"
)

// Hub manages active WebSocket connections and broadcasts events to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*websocket.Conn)}
}

// Register adds a connection and returns its id.
func (h *Hub) Register(conn *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	h.conns[id] = conn
	return id
}

// Unregister removes a connection.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// Broadcast sends the event to every connected client. Connections that fail
// are closed; removal happens when their read loop exits.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
		}
	}
}
