package requests

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired     = errors.New("requests: id is required")
	ErrBuyerRequired  = errors.New("requests: buyer is required")
	ErrTitleRequired  = errors.New("requests: title is required")
	ErrCityRequired   = errors.New("requests: city is required")
	ErrNegativeBudget = errors.New("requests: budget must be non-negative")
	ErrQualityRange   = errors.New("requests: minimum quality must be between 0 and 5")
	ErrNotOwned       = errors.New("requests: not owned by user")
	ErrNotFound       = errors.New("requests: not found")
)

type ID string

// Request is a want-to-buy post. Lifecycle mirrors an item listing minus the
// sold flag: created once, deleted by its owner, immutable otherwise.
type Request struct {
	ID             ID
	BuyerID        string
	Title          string
	Description    string
	Budget         int64
	City           string
	Locality       string
	QualityMin     int
	DeliveryNeeded bool
	CreatedAt      time.Time
}

type CreateParams struct {
	ID             ID
	BuyerID        string
	Title          string
	Description    string
	Budget         int64
	City           string
	Locality       string
	QualityMin     int
	DeliveryNeeded bool
	Now            time.Time
}

func New(params CreateParams) (*Request, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.BuyerID) == "" {
		return nil, ErrBuyerRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	if params.Budget < 0 {
		return nil, ErrNegativeBudget
	}
	if params.QualityMin < 0 || params.QualityMin > 5 {
		return nil, ErrQualityRange
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Request{
		ID:             ID(id),
		BuyerID:        params.BuyerID,
		Title:          title,
		Description:    strings.TrimSpace(params.Description),
		Budget:         params.Budget,
		City:           city,
		Locality:       strings.TrimSpace(params.Locality),
		QualityMin:     params.QualityMin,
		DeliveryNeeded: params.DeliveryNeeded,
		CreatedAt:      now.UTC(),
	}, nil
}

func (r *Request) OwnedBy(userID string) bool {
	return r.BuyerID == userID && userID != ""
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Request, error)
	ByBuyer(ctx context.Context, buyerID string) ([]*Request, error)
	All(ctx context.Context) ([]*Request, error)
	Save(ctx context.Context, request *Request) error
	Delete(ctx context.Context, id ID) error
}
