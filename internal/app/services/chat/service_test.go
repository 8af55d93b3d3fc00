package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "thriftee/internal/domain/chat"
	"thriftee/internal/infra/storage/memory"
)

func testService() *Service {
	return &Service{
		Rooms:    memory.NewChatRoomRepository(),
		Messages: memory.NewChatMessageRepository(),
		Now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestStartCreatesRoom(t *testing.T) {
	svc := testService()

	room, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "item-1", room.ListingID)
	assert.Equal(t, "buyer-1", room.BuyerID)
	assert.Equal(t, "seller-1", room.SellerID)
}

func TestStartIsIdempotentForSameTriple(t *testing.T) {
	svc := testService()

	first, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)
	second, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestStartDistinguishesBuyers(t *testing.T) {
	svc := testService()

	a, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-a")
	require.NoError(t, err)
	b, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestStartRejectsSelfChatWithoutTouchingStore(t *testing.T) {
	rooms := &countingRoomRepo{RoomRepository: memory.NewChatRoomRepository()}
	svc := &Service{Rooms: rooms, Messages: memory.NewChatMessageRepository()}

	_, err := svc.Start(context.Background(), "item-1", "user-1", "user-1")
	assert.ErrorIs(t, err, domainchat.ErrSelfChat)
	assert.Zero(t, rooms.calls)
}

func TestStartWrapsStoreFailures(t *testing.T) {
	svc := &Service{Rooms: failingRoomRepo{err: errors.New("connection reset")}}

	_, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	assert.ErrorIs(t, err, ErrBootstrapFailed)
}

func TestStartLosingRaceReturnsWinnerRoom(t *testing.T) {
	rooms := memory.NewChatRoomRepository()
	winner, err := domainchat.NewRoom(domainchat.CreateRoomParams{
		ID:        "winner",
		ListingID: "item-1",
		BuyerID:   "buyer-1",
		SellerID:  "seller-1",
	})
	require.NoError(t, err)

	svc := &Service{Rooms: &racingRoomRepo{ChatRoomRepository: rooms, winner: winner}}

	room, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, domainchat.RoomID("winner"), room.ID)
}

func TestSendAppendsAndNotifies(t *testing.T) {
	svc := testService()
	sink := &eventSink{}
	svc.Events = sink

	room, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)

	message, err := svc.Send(context.Background(), room.ID, "buyer-1", "still available?")
	require.NoError(t, err)
	assert.Equal(t, "still available?", message.Content)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, message.ID, sink.sent[0].ID)

	messages, err := svc.MessagesIn(context.Background(), room.ID, "seller-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, message.ID, messages[0].ID)
}

func TestSendRejectsOutsiders(t *testing.T) {
	svc := testService()

	room, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), room.ID, "stranger", "hi")
	assert.ErrorIs(t, err, domainchat.ErrNotParticipant)

	_, err = svc.MessagesIn(context.Background(), room.ID, "stranger")
	assert.ErrorIs(t, err, domainchat.ErrNotParticipant)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc := testService()

	room, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), room.ID, "buyer-1", "   ")
	assert.ErrorIs(t, err, domainchat.ErrEmptyMessage)
}

func TestRoomsForListsOwnThreadsOnly(t *testing.T) {
	svc := testService()

	_, err := svc.Start(context.Background(), "item-1", "seller-1", "buyer-1")
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), "item-2", "seller-2", "buyer-1")
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), "item-3", "seller-3", "buyer-other")
	require.NoError(t, err)

	rooms, err := svc.RoomsFor(context.Background(), "buyer-1")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

type countingRoomRepo struct {
	domainchat.RoomRepository
	calls int
}

func (r *countingRoomRepo) ByKey(ctx context.Context, listingID, buyerID, sellerID string) (*domainchat.Room, error) {
	r.calls++
	return r.RoomRepository.ByKey(ctx, listingID, buyerID, sellerID)
}

func (r *countingRoomRepo) Save(ctx context.Context, room *domainchat.Room) error {
	r.calls++
	return r.RoomRepository.Save(ctx, room)
}

type failingRoomRepo struct {
	err error
}

func (r failingRoomRepo) ByID(context.Context, domainchat.RoomID) (*domainchat.Room, error) {
	return nil, r.err
}

func (r failingRoomRepo) ByKey(context.Context, string, string, string) (*domainchat.Room, error) {
	return nil, r.err
}

func (r failingRoomRepo) ByParticipant(context.Context, string) ([]*domainchat.Room, error) {
	return nil, r.err
}

func (r failingRoomRepo) Save(context.Context, *domainchat.Room) error {
	return r.err
}

// racingRoomRepo simulates losing a concurrent create: the first lookup
// misses, the save collides, the retry lookup finds the winner.
type racingRoomRepo struct {
	*memory.ChatRoomRepository
	winner *domainchat.Room
	looked bool
}

func (r *racingRoomRepo) ByKey(ctx context.Context, listingID, buyerID, sellerID string) (*domainchat.Room, error) {
	if !r.looked {
		r.looked = true
		return nil, domainchat.ErrNotFound
	}
	return r.winner, nil
}

func (r *racingRoomRepo) Save(ctx context.Context, room *domainchat.Room) error {
	return domainchat.ErrDuplicateRoom
}

type eventSink struct {
	sent []*domainchat.Message
}

func (s *eventSink) MessageSent(_ context.Context, message *domainchat.Message) {
	s.sent = append(s.sent, message)
}
