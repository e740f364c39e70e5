// Package chat implements the in-process relay behind the collaboration
// messaging channel.  A conversation exists per user pair; joining one is
// gated upstream by the accepted-collaboration check.
package chat

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection keepalive parameters.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	PingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message is the JSON frame relayed between the two peers.
type Message struct {
	From   uint64 `json:"from"`
	Body   string `json:"body"`
	SentAt string `json:"sentAt"`
}

// PairKey produces the canonical conversation key for two user ids,
// independent of order.
func PairKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Hub tracks live connections per conversation.  All maps are guarded by
// mu; message writes happen outside the lock against a copied snapshot so
// one slow peer cannot stall the registry.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*websocket.Conn]uint64 // pair key -> conn -> user id
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]uint64)}
}

// Prepare applies the read limits and pong handling every chat connection
// uses before entering its read loop.
func Prepare(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return nil
}

// Join registers a connection under the conversation key.
func (h *Hub) Join(key string, conn *websocket.Conn, userID uint64) {
	h.mu.Lock()
	if h.rooms[key] == nil {
		h.rooms[key] = make(map[*websocket.Conn]uint64)
	}
	h.rooms[key][conn] = userID
	h.mu.Unlock()
}

// Leave removes a connection and drops the conversation entry when it
// empties.
func (h *Hub) Leave(key string, conn *websocket.Conn) {
	h.mu.Lock()
	if room, ok := h.rooms[key]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, key)
		}
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast relays a message to every connection in the conversation
// except the sender's own.  Failed connections are evicted.
func (h *Hub) Broadcast(key string, sender *websocket.Conn, msg Message) {
	h.mu.RLock()
	room, ok := h.rooms[key]
	if !ok || len(room) == 0 {
		h.mu.RUnlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(room))
	for conn := range room {
		if conn != sender {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("chat: set write deadline failed: %v", err)
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("chat: relay failed: %v", err)
			h.Leave(key, conn)
		}
	}
}

// Ping writes a ping frame, used by the per-connection keepalive ticker.
func Ping(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.PingMessage, nil)
}
