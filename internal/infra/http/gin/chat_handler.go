package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"thriftee/internal/app/dto"
	chatsvc "thriftee/internal/app/services/chat"
	domainchat "thriftee/internal/domain/chat"
	"thriftee/internal/infra/realtime"
)

// ChatHandler exposes conversation threads and their realtime feed.
type ChatHandler struct {
	Service *chatsvc.Service
	Hub     *realtime.Hub
	Logger  *slog.Logger

	upgrader websocket.Upgrader
}

func NewChatHandler(service *chatsvc.Service, hub *realtime.Hub, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		Service: service,
		Hub:     hub,
		Logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	rooms, err := h.Service.RoomsFor(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]dto.ChatRoom, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, dto.MapChatRoom(room))
	}
	c.JSON(http.StatusOK, dto.ChatRoomList{Rooms: out})
}

func (h *ChatHandler) Messages(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	messages, err := h.Service.MessagesIn(c.Request.Context(), domainchat.RoomID(c.Param("id")), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]dto.ChatMessage, 0, len(messages))
	for _, message := range messages {
		out = append(out, dto.MapChatMessage(message))
	}
	c.JSON(http.StatusOK, dto.ChatMessageList{Messages: out})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	message, err := h.Service.Send(c.Request.Context(), domainchat.RoomID(c.Param("id")), p.ID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapChatMessage(message))
}

// Feed upgrades to a websocket subscribed to the room. Inbound frames are
// treated as send requests with a plain-text body.
func (h *ChatHandler) Feed(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime feed unavailable"})
		return
	}
	roomID := domainchat.RoomID(c.Param("id"))
	if _, err := h.Service.Room(c.Request.Context(), roomID, p.ID); err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.Hub.Join(string(roomID), conn)
	defer h.Hub.Leave(string(roomID), conn)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if _, err := h.Service.Send(c.Request.Context(), roomID, p.ID, string(payload)); err != nil {
			if h.Logger != nil {
				h.Logger.Warn("feed send failed", "room_id", roomID, "error", err)
			}
		}
	}
}

func (h *ChatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainchat.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
	case errors.Is(err, domainchat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
	case errors.Is(err, domainchat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("chat operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
