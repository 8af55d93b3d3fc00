package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	domainchat "thriftee/internal/domain/chat"
)

// subscriber wraps a connection with a write lock. The websocket library
// allows one concurrent writer per connection, and broadcasts can arrive
// from several goroutines at once.
type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live websocket connections keyed by chat room. It doubles as
// the in-process event sink when no broker is configured.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*websocket.Conn]*subscriber
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*websocket.Conn]*subscriber),
		logger: logger,
	}
}

// Join subscribes a connection to a room's feed.
func (h *Hub) Join(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*websocket.Conn]*subscriber)
	}
	h.rooms[roomID][conn] = &subscriber{conn: conn}
}

// Leave removes a connection from a room's feed.
func (h *Hub) Leave(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast sends a raw payload to every connection in the room. Writes
// are serialized per connection; failed writes close the connection and
// removal happens on the next Leave.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.rooms[roomID]))
	for _, sub := range h.rooms[roomID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.send(payload); err != nil {
			sub.conn.Close()
		}
	}
}

type feedMessage struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	At        int64  `json:"at"`
}

// MessageSent fans a stored message out to room subscribers. The payload
// shape matches the broker relay so clients see one format either way.
func (h *Hub) MessageSent(_ context.Context, message *domainchat.Message) {
	payload, err := json.Marshal(feedMessage{
		MessageID: message.ID,
		RoomID:    string(message.RoomID),
		SenderID:  message.SenderID,
		Content:   message.Content,
		At:        message.CreatedAt.UnixMilli(),
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("feed encode failed", "room_id", message.RoomID, "error", err)
		}
		return
	}
	h.Broadcast(string(message.RoomID), payload)
}
