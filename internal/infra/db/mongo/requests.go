package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrequests "thriftee/internal/domain/requests"
)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection("requests")}
}

func (r *RequestRepository) ByID(ctx context.Context, id domainrequests.ID) (*domainrequests.Request, error) {
	var doc requestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrequests.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *RequestRepository) ByBuyer(ctx context.Context, buyerID string) ([]*domainrequests.Request, error) {
	return r.find(ctx, bson.M{"buyer_id": buyerID})
}

func (r *RequestRepository) All(ctx context.Context) ([]*domainrequests.Request, error) {
	return r.find(ctx, bson.M{})
}

func (r *RequestRepository) Save(ctx context.Context, req *domainrequests.Request) error {
	doc := newRequestDocument(req)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *RequestRepository) Delete(ctx context.Context, id domainrequests.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainrequests.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M) ([]*domainrequests.Request, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainrequests.Request, 0)
	for cur.Next(ctx) {
		var doc requestDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

type requestDocument struct {
	ID             string `bson:"_id"`
	BuyerID        string `bson:"buyer_id"`
	Title          string `bson:"title"`
	Description    string `bson:"description"`
	Budget         int64  `bson:"budget"`
	City           string `bson:"city"`
	Locality       string `bson:"locality"`
	QualityMin     int    `bson:"quality_min"`
	DeliveryNeeded bool   `bson:"delivery_needed"`
	CreatedAt      int64  `bson:"created_at"`
}

func newRequestDocument(req *domainrequests.Request) requestDocument {
	return requestDocument{
		ID:             string(req.ID),
		BuyerID:        req.BuyerID,
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		City:           req.City,
		Locality:       req.Locality,
		QualityMin:     req.QualityMin,
		DeliveryNeeded: req.DeliveryNeeded,
		CreatedAt:      req.CreatedAt.UnixMilli(),
	}
}

func (d requestDocument) toEntity() *domainrequests.Request {
	return &domainrequests.Request{
		ID:             domainrequests.ID(d.ID),
		BuyerID:        d.BuyerID,
		Title:          d.Title,
		Description:    d.Description,
		Budget:         d.Budget,
		City:           d.City,
		Locality:       d.Locality,
		QualityMin:     d.QualityMin,
		DeliveryNeeded: d.DeliveryNeeded,
		CreatedAt:      timestampToTime(d.CreatedAt),
	}
}
