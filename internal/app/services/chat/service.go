package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainchat "thriftee/internal/domain/chat"
)

// ErrBootstrapFailed wraps store failures during thread lookup-or-create.
// Retrying is safe: a second attempt finds whatever the first committed.
var ErrBootstrapFailed = errors.New("chat: bootstrap failed")

// Events receives chat activity for realtime fan-out.
type Events interface {
	MessageSent(ctx context.Context, message *domainchat.Message)
}

type Service struct {
	Rooms    domainchat.RoomRepository
	Messages domainchat.MessageRepository
	Events   Events
	Now      func() time.Time
	Logger   *slog.Logger
}

// Start locates or creates the conversation thread for a listing between its
// owner and an interested buyer. Idempotent for sequential calls; a lost
// create race falls back to the winner's room.
func (s *Service) Start(ctx context.Context, listingID, ownerID, buyerID string) (*domainchat.Room, error) {
	if s.Rooms == nil {
		return nil, errors.New("chat: room repository required")
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, domainchat.ErrListingRequired
	}
	ownerID = strings.TrimSpace(ownerID)
	buyerID = strings.TrimSpace(buyerID)
	if ownerID == "" || buyerID == "" {
		return nil, domainchat.ErrParticipantRequired
	}
	if ownerID == buyerID {
		return nil, domainchat.ErrSelfChat
	}

	existing, err := s.Rooms.ByKey(ctx, listingID, buyerID, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainchat.ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup: %w", ErrBootstrapFailed, err)
	}

	room, err := domainchat.NewRoom(domainchat.CreateRoomParams{
		ID:        domainchat.RoomID(uuid.NewString()),
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  ownerID,
		Now:       s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Rooms.Save(ctx, room); err != nil {
		if errors.Is(err, domainchat.ErrDuplicateRoom) {
			winner, lookupErr := s.Rooms.ByKey(ctx, listingID, buyerID, ownerID)
			if lookupErr == nil {
				return winner, nil
			}
			return nil, fmt.Errorf("%w: post-race lookup: %w", ErrBootstrapFailed, lookupErr)
		}
		return nil, fmt.Errorf("%w: create: %w", ErrBootstrapFailed, err)
	}
	if s.Logger != nil {
		s.Logger.Info("chat started", "room_id", room.ID, "listing_id", listingID, "buyer_id", buyerID, "seller_id", ownerID)
	}
	return room, nil
}

// Room loads a thread and verifies the caller participates in it.
func (s *Service) Room(ctx context.Context, roomID domainchat.RoomID, userID string) (*domainchat.Room, error) {
	room, err := s.Rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, domainchat.ErrNotParticipant
	}
	return room, nil
}

// RoomsFor lists the caller's threads, most recent first.
func (s *Service) RoomsFor(ctx context.Context, userID string) ([]*domainchat.Room, error) {
	rooms, err := s.Rooms.ByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// MessagesIn returns the thread's messages in store order after a
// participant check.
func (s *Service) MessagesIn(ctx context.Context, roomID domainchat.RoomID, userID string) ([]*domainchat.Message, error) {
	if _, err := s.Room(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.Messages.ByRoom(ctx, roomID)
}

// Send appends a message to the thread and notifies the realtime channel.
func (s *Service) Send(ctx context.Context, roomID domainchat.RoomID, senderID, content string) (*domainchat.Message, error) {
	if s.Messages == nil {
		return nil, errors.New("chat: message repository required")
	}
	if _, err := s.Room(ctx, roomID, senderID); err != nil {
		return nil, err
	}
	message, err := domainchat.NewMessage(domainchat.CreateMessageParams{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
		Now:      s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Messages.Save(ctx, message); err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.MessageSent(ctx, message)
	}
	return message, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
