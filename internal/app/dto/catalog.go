package dto

import (
	"time"

	"thriftee/internal/app/services/catalog"
	"thriftee/internal/domain/browse"
	domainitems "thriftee/internal/domain/items"
	domainrequests "thriftee/internal/domain/requests"
)

// ItemCard is the browse-view representation of a listing.
type ItemCard struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	City          string    `json:"city"`
	Locality      string    `json:"locality,omitempty"`
	Images        []string  `json:"images"`
	QualityRating int       `json:"quality_rating"`
	HasReceipt    bool      `json:"has_receipt"`
	HasDelivery   bool      `json:"has_delivery"`
	IsVerified    bool      `json:"is_verified"`
	IsSold        bool      `json:"is_sold"`
	SellerID      string    `json:"seller_id"`
	Posted        string    `json:"posted"`
	CreatedAt     time.Time `json:"created_at"`
}

// ItemBrowse is one reveal window plus pagination meta.
type ItemBrowse struct {
	Items   []ItemCard `json:"items"`
	Total   int        `json:"total"`
	Visible int        `json:"visible"`
	HasMore bool       `json:"has_more"`
}

type RequestCard struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Budget         int64     `json:"budget"`
	City           string    `json:"city"`
	Locality       string    `json:"locality,omitempty"`
	QualityMin     int       `json:"quality_min"`
	DeliveryNeeded bool      `json:"delivery_needed"`
	BuyerID        string    `json:"buyer_id"`
	Posted         string    `json:"posted"`
	CreatedAt      time.Time `json:"created_at"`
}

type RequestBrowse struct {
	Requests []RequestCard `json:"requests"`
	Total    int           `json:"total"`
	Visible  int           `json:"visible"`
	HasMore  bool          `json:"has_more"`
}

func MapItemCard(item *domainitems.Item, now time.Time) ItemCard {
	if item == nil {
		return ItemCard{}
	}
	images := item.Images
	if images == nil {
		images = []string{}
	}
	return ItemCard{
		ID:            string(item.ID),
		Name:          item.Name,
		Price:         item.Price,
		City:          item.City,
		Locality:      item.Locality,
		Images:        append([]string(nil), images...),
		QualityRating: item.QualityRating,
		HasReceipt:    item.HasReceipt,
		HasDelivery:   item.HasDelivery,
		IsVerified:    item.IsVerified,
		IsSold:        item.IsSold,
		SellerID:      item.SellerID,
		Posted:        browse.FormatAge(item.CreatedAt, now),
		CreatedAt:     item.CreatedAt,
	}
}

func MapItemBrowse(page catalog.ItemPage, now time.Time) ItemBrowse {
	cards := make([]ItemCard, 0, len(page.Items))
	for _, item := range page.Items {
		cards = append(cards, MapItemCard(item, now))
	}
	return ItemBrowse{
		Items:   cards,
		Total:   page.Total,
		Visible: page.Visible,
		HasMore: page.HasMore,
	}
}

func MapRequestCard(request *domainrequests.Request, now time.Time) RequestCard {
	if request == nil {
		return RequestCard{}
	}
	return RequestCard{
		ID:             string(request.ID),
		Title:          request.Title,
		Description:    request.Description,
		Budget:         request.Budget,
		City:           request.City,
		Locality:       request.Locality,
		QualityMin:     request.QualityMin,
		DeliveryNeeded: request.DeliveryNeeded,
		BuyerID:        request.BuyerID,
		Posted:         browse.FormatAge(request.CreatedAt, now),
		CreatedAt:      request.CreatedAt,
	}
}

func MapRequestBrowse(page catalog.RequestPage, now time.Time) RequestBrowse {
	cards := make([]RequestCard, 0, len(page.Requests))
	for _, request := range page.Requests {
		cards = append(cards, MapRequestCard(request, now))
	}
	return RequestBrowse{
		Requests: cards,
		Total:    page.Total,
		Visible:  page.Visible,
		HasMore:  page.HasMore,
	}
}
