package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainchat "thriftee/internal/domain/chat"
)

type ChatRoomRepository struct {
	col *mongo.Collection
}

func NewChatRoomRepository(db *mongo.Database) *ChatRoomRepository {
	return &ChatRoomRepository{col: db.Collection("chat_rooms")}
}

// EnsureIndexes creates the unique index backing the one-room-per-triple
// rule. Concurrent creates for the same triple surface as ErrDuplicateRoom.
func (r *ChatRoomRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "listing_id", Value: 1},
			{Key: "buyer_id", Value: 1},
			{Key: "seller_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ChatRoomRepository) ByID(ctx context.Context, id domainchat.RoomID) (*domainchat.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainchat.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ChatRoomRepository) ByKey(ctx context.Context, listingID, buyerID, sellerID string) (*domainchat.Room, error) {
	filter := bson.M{"listing_id": listingID, "buyer_id": buyerID, "seller_id": sellerID}
	var doc roomDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainchat.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ChatRoomRepository) ByParticipant(ctx context.Context, userID string) ([]*domainchat.Room, error) {
	filter := bson.M{"$or": bson.A{bson.M{"buyer_id": userID}, bson.M{"seller_id": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainchat.Room, 0)
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *ChatRoomRepository) Save(ctx context.Context, room *domainchat.Room) error {
	doc := newRoomDocument(room)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainchat.ErrDuplicateRoom
		}
		return err
	}
	return nil
}

type roomDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	BuyerID   string `bson:"buyer_id"`
	SellerID  string `bson:"seller_id"`
	CreatedAt int64  `bson:"created_at"`
}

func newRoomDocument(room *domainchat.Room) roomDocument {
	return roomDocument{
		ID:        string(room.ID),
		ListingID: room.ListingID,
		BuyerID:   room.BuyerID,
		SellerID:  room.SellerID,
		CreatedAt: room.CreatedAt.UnixMilli(),
	}
}

func (d roomDocument) toEntity() *domainchat.Room {
	return &domainchat.Room{
		ID:        domainchat.RoomID(d.ID),
		ListingID: d.ListingID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

type ChatMessageRepository struct {
	col *mongo.Collection
}

func NewChatMessageRepository(db *mongo.Database) *ChatMessageRepository {
	return &ChatMessageRepository{col: db.Collection("chat_messages")}
}

func (r *ChatMessageRepository) ByRoom(ctx context.Context, roomID domainchat.RoomID) ([]*domainchat.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"room_id": string(roomID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainchat.Message, 0)
	for cur.Next(ctx) {
		var doc messageDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *ChatMessageRepository) Save(ctx context.Context, message *domainchat.Message) error {
	doc := messageDocument{
		ID:        message.ID,
		RoomID:    string(message.RoomID),
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type messageDocument struct {
	ID        string `bson:"_id"`
	RoomID    string `bson:"room_id"`
	SenderID  string `bson:"sender_id"`
	Content   string `bson:"content"`
	CreatedAt int64  `bson:"created_at"`
}

func (d messageDocument) toEntity() *domainchat.Message {
	return &domainchat.Message{
		ID:        d.ID,
		RoomID:    domainchat.RoomID(d.RoomID),
		SenderID:  d.SenderID,
		Content:   d.Content,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
