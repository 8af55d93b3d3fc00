package dto

import (
	"time"

	domainchat "thriftee/internal/domain/chat"
)

// ChatRoom describes a conversation thread.
type ChatRoom struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRoomList struct {
	Rooms []ChatRoom `json:"rooms"`
}

// ChatMessage is a single message payload, also used on the websocket feed.
type ChatMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessageList struct {
	Messages []ChatMessage `json:"messages"`
}

func MapChatRoom(room *domainchat.Room) ChatRoom {
	if room == nil {
		return ChatRoom{}
	}
	return ChatRoom{
		ID:        string(room.ID),
		ListingID: room.ListingID,
		BuyerID:   room.BuyerID,
		SellerID:  room.SellerID,
		CreatedAt: room.CreatedAt,
	}
}

func MapChatMessage(message *domainchat.Message) ChatMessage {
	if message == nil {
		return ChatMessage{}
	}
	return ChatMessage{
		ID:        message.ID,
		RoomID:    string(message.RoomID),
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}
