// Package ws pushes dock activity to open dashboards: a scan accepted at the
// station or a vehicle check-in shows up on the arrivals board without a
// reload.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"
)

// Event is the payload broadcast to all connected clients.
type Event struct {
	Type   string `json:"type"`
	ID     any    `json:"id"`
	Action string `json:"action"`
}

// client wraps a connection with a mutex for thread-safe writes.
type client struct {
	conn *gws.Conn
	mu   sync.Mutex
}

// Hub maintains connected clients and broadcasts events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Broadcast sends an event to all connected clients. Write failures evict the
// client.
func (h *Hub) Broadcast(evt Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("ws marshal failed", slog.Any("err", err))
		return
	}
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		writeErr := c.conn.WriteMessage(gws.TextMessage, data)
		c.mu.Unlock()
		if writeErr != nil {
			h.unregister(c)
		}
	}
}

// BroadcastChange is a convenience helper for resource change events.
func (h *Hub) BroadcastChange(resourceType, action string, id any) {
	h.Broadcast(Event{Type: resourceType + "_" + action, ID: id, Action: action})
}

var upgrader = gws.Upgrader{
	// Sessions are cookie-authenticated before the upgrade; the dashboard is
	// same-origin only.
	CheckOrigin: func(r *http.Request) bool { return r.Header.Get("Origin") == "" || r.Host != "" },
}

// Handler upgrades the connection and drains client frames until close.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("ws upgrade failed", slog.Any("err", err))
			return
		}
		c := &client{conn: conn}
		hub.register(c)

		go func() {
			defer hub.unregister(c)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
