package items

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired     = errors.New("items: id is required")
	ErrSellerRequired = errors.New("items: seller is required")
	ErrNameRequired   = errors.New("items: name is required")
	ErrCityRequired   = errors.New("items: city is required")
	ErrNegativePrice  = errors.New("items: price must be non-negative")
	ErrQualityRange   = errors.New("items: quality rating must be between 0 and 5")
	ErrAlreadySold    = errors.New("items: already marked sold")
	ErrNotOwned       = errors.New("items: not owned by user")
	ErrNotFound       = errors.New("items: not found")
)

type ID string

// Item is a second-hand listing put up by a seller. After creation only the
// sold flag flips; everything else is immutable except owner deletion.
type Item struct {
	ID            ID
	SellerID      string
	Name          string
	Price         int64
	City          string
	Locality      string
	Images        []string
	QualityRating int
	HasReceipt    bool
	HasDelivery   bool
	IsVerified    bool
	IsSold        bool
	CreatedAt     time.Time
}

type CreateParams struct {
	ID            ID
	SellerID      string
	Name          string
	Price         int64
	City          string
	Locality      string
	Images        []string
	QualityRating int
	HasReceipt    bool
	HasDelivery   bool
	IsVerified    bool
	Now           time.Time
}

func New(params CreateParams) (*Item, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.SellerID) == "" {
		return nil, ErrSellerRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.QualityRating < 0 || params.QualityRating > 5 {
		return nil, ErrQualityRange
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Item{
		ID:            ID(id),
		SellerID:      params.SellerID,
		Name:          name,
		Price:         params.Price,
		City:          city,
		Locality:      strings.TrimSpace(params.Locality),
		Images:        append([]string(nil), params.Images...),
		QualityRating: params.QualityRating,
		HasReceipt:    params.HasReceipt,
		HasDelivery:   params.HasDelivery,
		IsVerified:    params.IsVerified,
		CreatedAt:     now.UTC(),
	}, nil
}

func (i *Item) MarkSold() error {
	if i.IsSold {
		return ErrAlreadySold
	}
	i.IsSold = true
	return nil
}

func (i *Item) AddImage(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	i.Images = append(i.Images, url)
}

func (i *Item) OwnedBy(userID string) bool {
	return i.SellerID == userID && userID != ""
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Item, error)
	BySeller(ctx context.Context, sellerID string) ([]*Item, error)
	// Unsold returns every listing not yet flipped to sold, in no particular
	// order. Richer filtering happens in the domain, not the store.
	Unsold(ctx context.Context) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id ID) error
}
