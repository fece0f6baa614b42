package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const writeTimeout = 200 * time.Millisecond

// Hub fans messages out to connected websocket clients. Clients that fail a
// write are closed and dropped.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// websocket connections allow one concurrent writer
	writeMu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}

func (h *Hub) broadcast(messageType int, b []byte) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, c := range h.snapshot() {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(messageType, b); err != nil {
			_ = c.Close()
			h.Remove(c)
		}
	}
}

// BroadcastBinary sends a chunk frame to every client
func (h *Hub) BroadcastBinary(b []byte) {
	h.broadcast(websocket.BinaryMessage, b)
}

// BroadcastText sends a JSON message to every client
func (h *Hub) BroadcastText(b []byte) {
	h.broadcast(websocket.TextMessage, b)
}

// Relay forwards frames on subject and rate updates on its params subject to
// the hub. The returned function removes both subscriptions.
func Relay(conn *nats.Conn, subject string, hub *Hub, logger zerolog.Logger) (func(), error) {
	waves, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		hub.BroadcastBinary(msg.Data)
	})
	if err != nil {
		return nil, err
	}

	params, err := conn.Subscribe(ParamsSubject(subject), func(msg *nats.Msg) {
		hub.BroadcastText(msg.Data)
	})
	if err != nil {
		_ = waves.Unsubscribe()
		return nil, err
	}

	logger.Info().Str("subject", subject).Msg("Relaying stream to websocket clients")

	return func() {
		_ = waves.Unsubscribe()
		_ = params.Unsubscribe()
	}, nil
}
