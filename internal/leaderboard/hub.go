// Package leaderboard implements a self-hostable backend for score
// submissions: validation, hash recomputation, deduplication, a top-N
// listing, and a websocket feed of accepted entries.
package leaderboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Hub fans accepted leaderboard entries out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *log.Logger

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away. Clients only listen; inbound messages are discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("feed client connected", "remote", conn.RemoteAddr().String(), "clients", n)

	go h.drain(conn)
}

// drain consumes the read side until the connection dies, then unregisters.
func (h *Hub) drain(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends one JSON message to every connected client. Clients whose
// write fails are dropped; a slow consumer never blocks the submit path for
// longer than the write deadline.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("cannot encode broadcast", "error", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("dropping feed client", "remote", c.RemoteAddr().String(), "error", err)
			h.remove(c)
		}
	}
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
