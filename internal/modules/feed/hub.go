package feed

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with a write lock; gorilla/websocket allows only
// one concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub fans events out to every connected dashboard client. One connection per
// user; a reconnect replaces the old socket.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*client),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.conn.Close()
	}
	h.connections[userID] = &client{conn: conn}
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[userID]; exists && c != nil {
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
}

// Broadcast writes the event to every client, dropping connections whose
// writes fail. Writes from concurrent broadcasts are serialized per
// connection by the client lock.
func (h *Hub) Broadcast(message interface{}) {
	h.mutex.RLock()
	clients := make(map[int64]*client, len(h.connections))
	for id, c := range h.connections {
		clients[id] = c
	}
	h.mutex.RUnlock()

	for userID, c := range clients {
		if c == nil {
			continue
		}
		if err := c.write(message); err != nil {
			h.Unregister(userID)
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			_ = c.conn.Close()
		}
		delete(h.connections, userID)
	}
}
