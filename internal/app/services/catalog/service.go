package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"thriftee/internal/domain/browse"
	domainitems "thriftee/internal/domain/items"
	domainrequests "thriftee/internal/domain/requests"
)

// Events receives catalog lifecycle notifications for the event broker.
type Events interface {
	ItemCreated(ctx context.Context, item *domainitems.Item)
	ItemSold(ctx context.Context, item *domainitems.Item)
	ItemDeleted(ctx context.Context, id domainitems.ID)
	RequestCreated(ctx context.Context, request *domainrequests.Request)
}

// Uploader stores binary content and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type Service struct {
	Items    domainitems.Repository
	Requests domainrequests.Repository
	Events   Events
	Images   Uploader
	Now      func() time.Time
	Logger   *slog.Logger
}

// ItemPage is one reveal window over the filtered item set.
type ItemPage struct {
	Items   []*domainitems.Item
	Total   int
	Visible int
	HasMore bool
}

// RequestPage mirrors ItemPage for want-to-buy posts.
type RequestPage struct {
	Requests []*domainrequests.Request
	Total    int
	Visible  int
	HasMore  bool
}

// BrowseItems fetches unsold listings once, filters them in the domain,
// sorts newest-first and slices the reveal window.
func (s *Service) BrowseItems(ctx context.Context, filter domainitems.Filter, visible int) (ItemPage, error) {
	all, err := s.Items.Unsold(ctx)
	if err != nil {
		return ItemPage{}, fmt.Errorf("fetch items: %w", err)
	}
	filtered := filter.Apply(all)
	domainitems.SortNewestFirst(filtered)

	reveal := browse.At(visible)
	window := reveal.Window(len(filtered))
	return ItemPage{
		Items:   filtered[:window],
		Total:   len(filtered),
		Visible: reveal.Visible(),
		HasMore: reveal.HasMore(len(filtered)),
	}, nil
}

func (s *Service) BrowseRequests(ctx context.Context, filter domainrequests.Filter, visible int) (RequestPage, error) {
	all, err := s.Requests.All(ctx)
	if err != nil {
		return RequestPage{}, fmt.Errorf("fetch requests: %w", err)
	}
	filtered := filter.Apply(all)
	domainrequests.SortNewestFirst(filtered)

	reveal := browse.At(visible)
	window := reveal.Window(len(filtered))
	return RequestPage{
		Requests: filtered[:window],
		Total:    len(filtered),
		Visible:  reveal.Visible(),
		HasMore:  reveal.HasMore(len(filtered)),
	}, nil
}

func (s *Service) Item(ctx context.Context, id domainitems.ID) (*domainitems.Item, error) {
	return s.Items.ByID(ctx, id)
}

func (s *Service) Request(ctx context.Context, id domainrequests.ID) (*domainrequests.Request, error) {
	return s.Requests.ByID(ctx, id)
}

type CreateItemParams struct {
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
}

func (s *Service) CreateItem(ctx context.Context, params CreateItemParams) (*domainitems.Item, error) {
	item, err := domainitems.New(domainitems.CreateParams{
		ID:            domainitems.ID(uuid.NewString()),
		SellerID:      params.SellerID,
		Name:          params.Name,
		Price:         params.Price,
		City:          params.City,
		Locality:      params.Locality,
		Images:        params.Images,
		QualityRating: params.QualityRating,
		HasReceipt:    params.HasReceipt,
		HasDelivery:   params.HasDelivery,
		IsVerified:    params.IsVerified,
		Now:           s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Items.Save(ctx, item); err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.ItemCreated(ctx, item)
	}
	if s.Logger != nil {
		s.Logger.Info("item listed", "item_id", item.ID, "seller_id", item.SellerID, "city", item.City)
	}
	return item, nil
}

// MarkItemSold flips the sold flag for the owning seller.
func (s *Service) MarkItemSold(ctx context.Context, id domainitems.ID, sellerID string) (*domainitems.Item, error) {
	item, err := s.Items.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(sellerID) {
		return nil, domainitems.ErrNotOwned
	}
	if err := item.MarkSold(); err != nil {
		return nil, err
	}
	if err := s.Items.Save(ctx, item); err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.ItemSold(ctx, item)
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id domainitems.ID, sellerID string) error {
	item, err := s.Items.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.OwnedBy(sellerID) {
		return domainitems.ErrNotOwned
	}
	if err := s.Items.Delete(ctx, id); err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.ItemDeleted(ctx, id)
	}
	return nil
}

// AddItemImage uploads a photo and attaches its public URL to the listing.
func (s *Service) AddItemImage(ctx context.Context, id domainitems.ID, sellerID, objectKey, contentType string, reader io.Reader) (*domainitems.Item, error) {
	if s.Images == nil {
		return nil, errors.New("catalog: image uploader unavailable")
	}
	if reader == nil {
		return nil, errors.New("catalog: image reader is required")
	}
	if strings.TrimSpace(objectKey) == "" {
		return nil, errors.New("catalog: object key is required")
	}
	item, err := s.Items.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(sellerID) {
		return nil, domainitems.ErrNotOwned
	}
	url, err := s.Images.Upload(ctx, objectKey, reader, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	item.AddImage(url)
	if err := s.Items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

type CreateRequestParams struct {
	BuyerID        string
	Title          string
	Description    string
	Budget         int64
	City           string
	Locality       string
	QualityMin     int
	DeliveryNeeded bool
}

func (s *Service) CreateRequest(ctx context.Context, params CreateRequestParams) (*domainrequests.Request, error) {
	request, err := domainrequests.New(domainrequests.CreateParams{
		ID:             domainrequests.ID(uuid.NewString()),
		BuyerID:        params.BuyerID,
		Title:          params.Title,
		Description:    params.Description,
		Budget:         params.Budget,
		City:           params.City,
		Locality:       params.Locality,
		QualityMin:     params.QualityMin,
		DeliveryNeeded: params.DeliveryNeeded,
		Now:            s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Requests.Save(ctx, request); err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.RequestCreated(ctx, request)
	}
	if s.Logger != nil {
		s.Logger.Info("request posted", "request_id", request.ID, "buyer_id", request.BuyerID, "city", request.City)
	}
	return request, nil
}

func (s *Service) DeleteRequest(ctx context.Context, id domainrequests.ID, buyerID string) error {
	request, err := s.Requests.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !request.OwnedBy(buyerID) {
		return domainrequests.ErrNotOwned
	}
	return s.Requests.Delete(ctx, id)
}

func (s *Service) ItemsBySeller(ctx context.Context, sellerID string) ([]*domainitems.Item, error) {
	list, err := s.Items.BySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	domainitems.SortNewestFirst(list)
	return list, nil
}

func (s *Service) RequestsByBuyer(ctx context.Context, buyerID string) ([]*domainrequests.Request, error) {
	list, err := s.Requests.ByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	domainrequests.SortNewestFirst(list)
	return list, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
