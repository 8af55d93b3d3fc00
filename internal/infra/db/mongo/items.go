package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitems "thriftee/internal/domain/items"
)

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection("items")}
}

func (r *ItemRepository) ByID(ctx context.Context, id domainitems.ID) (*domainitems.Item, error) {
	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainitems.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ItemRepository) BySeller(ctx context.Context, sellerID string) ([]*domainitems.Item, error) {
	return r.find(ctx, bson.M{"seller_id": sellerID})
}

func (r *ItemRepository) Unsold(ctx context.Context) ([]*domainitems.Item, error) {
	return r.find(ctx, bson.M{"is_sold": false})
}

func (r *ItemRepository) Save(ctx context.Context, item *domainitems.Item) error {
	doc := newItemDocument(item)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id domainitems.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainitems.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) find(ctx context.Context, filter bson.M) ([]*domainitems.Item, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainitems.Item, 0)
	for cur.Next(ctx) {
		var doc itemDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

type itemDocument struct {
	ID            string   `bson:"_id"`
	SellerID      string   `bson:"seller_id"`
	Name          string   `bson:"name"`
	Price         int64    `bson:"price"`
	City          string   `bson:"city"`
	Locality      string   `bson:"locality"`
	Images        []string `bson:"images"`
	QualityRating int      `bson:"quality_rating"`
	HasReceipt    bool     `bson:"has_receipt"`
	HasDelivery   bool     `bson:"has_delivery"`
	IsVerified    bool     `bson:"is_verified"`
	IsSold        bool     `bson:"is_sold"`
	CreatedAt     int64    `bson:"created_at"`
}

func newItemDocument(item *domainitems.Item) itemDocument {
	return itemDocument{
		ID:            string(item.ID),
		SellerID:      item.SellerID,
		Name:          item.Name,
		Price:         item.Price,
		City:          item.City,
		Locality:      item.Locality,
		Images:        append([]string(nil), item.Images...),
		QualityRating: item.QualityRating,
		HasReceipt:    item.HasReceipt,
		HasDelivery:   item.HasDelivery,
		IsVerified:    item.IsVerified,
		IsSold:        item.IsSold,
		CreatedAt:     item.CreatedAt.UnixMilli(),
	}
}

func (d itemDocument) toEntity() *domainitems.Item {
	return &domainitems.Item{
		ID:            domainitems.ID(d.ID),
		SellerID:      d.SellerID,
		Name:          d.Name,
		Price:         d.Price,
		City:          d.City,
		Locality:      d.Locality,
		Images:        append(make([]string, 0, len(d.Images)), d.Images...),
		QualityRating: d.QualityRating,
		HasReceipt:    d.HasReceipt,
		HasDelivery:   d.HasDelivery,
		IsVerified:    d.IsVerified,
		IsSold:        d.IsSold,
		CreatedAt:     timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
