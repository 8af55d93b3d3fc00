package chat

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("chat: id is required")
	ErrListingRequired     = errors.New("chat: listing is required")
	ErrParticipantRequired = errors.New("chat: both participants are required")
	ErrSelfChat            = errors.New("chat: cannot chat with yourself")
	ErrNotParticipant      = errors.New("chat: not a participant")
	ErrEmptyMessage        = errors.New("chat: message content is required")
	ErrNotFound            = errors.New("chat: not found")
	// ErrDuplicateRoom is returned by stores that detect a concurrent
	// create for the same (listing, buyer, seller) key.
	ErrDuplicateRoom = errors.New("chat: room already exists")
)

type RoomID string

// Room is a conversation thread between the owner of a listing (or request)
// and an interested counterparty. ListingID holds the originating item or
// request id; at most one room exists per (listing, buyer, seller) triple.
type Room struct {
	ID        RoomID
	ListingID string
	BuyerID   string
	SellerID  string
	CreatedAt time.Time
}

type CreateRoomParams struct {
	ID        RoomID
	ListingID string
	BuyerID   string
	SellerID  string
	Now       time.Time
}

func NewRoom(params CreateRoomParams) (*Room, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	listingID := strings.TrimSpace(params.ListingID)
	if listingID == "" {
		return nil, ErrListingRequired
	}
	buyer := strings.TrimSpace(params.BuyerID)
	seller := strings.TrimSpace(params.SellerID)
	if buyer == "" || seller == "" {
		return nil, ErrParticipantRequired
	}
	if buyer == seller {
		return nil, ErrSelfChat
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Room{
		ID:        RoomID(id),
		ListingID: listingID,
		BuyerID:   buyer,
		SellerID:  seller,
		CreatedAt: now.UTC(),
	}, nil
}

func (r *Room) HasParticipant(userID string) bool {
	return userID != "" && (r.BuyerID == userID || r.SellerID == userID)
}

func (r *Room) Counterparty(userID string) string {
	if r.BuyerID == userID {
		return r.SellerID
	}
	return r.BuyerID
}

// Message is append-only chat content. Delivery may be at-least-once;
// consumers deduplicate on ID.
type Message struct {
	ID        string
	RoomID    RoomID
	SenderID  string
	Content   string
	CreatedAt time.Time
}

type CreateMessageParams struct {
	ID       string
	RoomID   RoomID
	SenderID string
	Content  string
	Now      time.Time
}

func NewMessage(params CreateMessageParams) (*Message, error) {
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.RoomID)) == "" {
		return nil, ErrListingRequired
	}
	sender := strings.TrimSpace(params.SenderID)
	if sender == "" {
		return nil, ErrParticipantRequired
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Message{
		ID:        id,
		RoomID:    params.RoomID,
		SenderID:  sender,
		Content:   content,
		CreatedAt: now.UTC(),
	}, nil
}

type RoomRepository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	// ByKey looks up the unique room for a (listing, buyer, seller) triple,
	// returning ErrNotFound when absent.
	ByKey(ctx context.Context, listingID, buyerID, sellerID string) (*Room, error)
	ByParticipant(ctx context.Context, userID string) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
}

type MessageRepository interface {
	ByRoom(ctx context.Context, roomID RoomID) ([]*Message, error)
	Save(ctx context.Context, message *Message) error
}
