package memory

import (
	"context"
	"sort"
	"sync"

	domainchat "thriftee/internal/domain/chat"
)

type tripleKey struct {
	listingID string
	buyerID   string
	sellerID  string
}

// ChatRoomRepository keeps conversation threads in memory. The write lock
// makes get-or-create races impossible within one process.
type ChatRoomRepository struct {
	mu    sync.RWMutex
	byID  map[domainchat.RoomID]*domainchat.Room
	byKey map[tripleKey]domainchat.RoomID
}

func NewChatRoomRepository() *ChatRoomRepository {
	return &ChatRoomRepository{
		byID:  make(map[domainchat.RoomID]*domainchat.Room),
		byKey: make(map[tripleKey]domainchat.RoomID),
	}
}

func (r *ChatRoomRepository) ByID(ctx context.Context, id domainchat.RoomID) (*domainchat.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if room, ok := r.byID[id]; ok {
		return cloneRoom(room), nil
	}
	return nil, domainchat.ErrNotFound
}

func (r *ChatRoomRepository) ByKey(ctx context.Context, listingID, buyerID, sellerID string) (*domainchat.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[tripleKey{listingID, buyerID, sellerID}]
	if !ok {
		return nil, domainchat.ErrNotFound
	}
	if room, ok := r.byID[id]; ok {
		return cloneRoom(room), nil
	}
	return nil, domainchat.ErrNotFound
}

func (r *ChatRoomRepository) ByParticipant(ctx context.Context, userID string) ([]*domainchat.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainchat.Room, 0)
	for _, room := range r.byID {
		if room.HasParticipant(userID) {
			out = append(out, cloneRoom(room))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ChatRoomRepository) Save(ctx context.Context, room *domainchat.Room) error {
	if room == nil || room.ID == "" {
		return domainchat.ErrIDRequired
	}
	key := tripleKey{room.ListingID, room.BuyerID, room.SellerID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[key]; ok && existing != room.ID {
		return domainchat.ErrDuplicateRoom
	}
	r.byKey[key] = room.ID
	r.byID[room.ID] = cloneRoom(room)
	return nil
}

func cloneRoom(room *domainchat.Room) *domainchat.Room {
	if room == nil {
		return nil
	}
	copied := *room
	return &copied
}

// ChatMessageRepository keeps messages per room in append order.
type ChatMessageRepository struct {
	mu       sync.RWMutex
	messages map[domainchat.RoomID][]*domainchat.Message
}

func NewChatMessageRepository() *ChatMessageRepository {
	return &ChatMessageRepository{messages: make(map[domainchat.RoomID][]*domainchat.Message)}
}

func (r *ChatMessageRepository) ByRoom(ctx context.Context, roomID domainchat.RoomID) ([]*domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.messages[roomID]
	out := make([]*domainchat.Message, 0, len(stored))
	for _, msg := range stored {
		out = append(out, cloneMessage(msg))
	}
	return out, nil
}

func (r *ChatMessageRepository) Save(ctx context.Context, message *domainchat.Message) error {
	if message == nil || message.ID == "" {
		return domainchat.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[message.RoomID] = append(r.messages[message.RoomID], cloneMessage(message))
	return nil
}

func cloneMessage(msg *domainchat.Message) *domainchat.Message {
	if msg == nil {
		return nil
	}
	copied := *msg
	return &copied
}
