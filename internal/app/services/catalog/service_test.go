package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainitems "thriftee/internal/domain/items"
	domainrequests "thriftee/internal/domain/requests"
	"thriftee/internal/infra/storage/memory"
)

func testClock() func() time.Time {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func testService() *Service {
	return &Service{
		Items:    memory.NewItemRepository(),
		Requests: memory.NewRequestRepository(),
		Now:      testClock(),
	}
}

func seedItems(t *testing.T, svc *Service, n int) []*domainitems.Item {
	t.Helper()
	out := make([]*domainitems.Item, 0, n)
	for i := 0; i < n; i++ {
		item, err := svc.CreateItem(context.Background(), CreateItemParams{
			SellerID: "seller-1",
			Name:     "Chair",
			Price:    int64(100 * (i + 1)),
			City:     "Bergen",
		})
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

func TestBrowseItemsFirstPage(t *testing.T) {
	svc := testService()
	seedItems(t, svc, 14)

	page, err := svc.BrowseItems(context.Background(), domainitems.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 6)
	assert.Equal(t, 14, page.Total)
	assert.Equal(t, 6, page.Visible)
	assert.True(t, page.HasMore)
}

func TestBrowseItemsGrowsAndExhausts(t *testing.T) {
	svc := testService()
	seedItems(t, svc, 14)

	page, err := svc.BrowseItems(context.Background(), domainitems.Filter{}, 12)
	require.NoError(t, err)
	assert.Len(t, page.Items, 12)
	assert.True(t, page.HasMore)

	page, err = svc.BrowseItems(context.Background(), domainitems.Filter{}, 18)
	require.NoError(t, err)
	assert.Len(t, page.Items, 14)
	assert.False(t, page.HasMore)
}

func TestBrowseItemsNewestFirst(t *testing.T) {
	svc := testService()
	created := seedItems(t, svc, 3)

	page, err := svc.BrowseItems(context.Background(), domainitems.Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, created[2].ID, page.Items[0].ID)
	assert.Equal(t, created[0].ID, page.Items[2].ID)
}

func TestBrowseItemsAppliesFilterBeforeSlicing(t *testing.T) {
	svc := testService()
	seedItems(t, svc, 10)

	page, err := svc.BrowseItems(context.Background(), domainitems.Filter{MaxPrice: 300}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 3)
	assert.False(t, page.HasMore)
}

func TestBrowseItemsExcludesSold(t *testing.T) {
	svc := testService()
	created := seedItems(t, svc, 3)

	_, err := svc.MarkItemSold(context.Background(), created[0].ID, "seller-1")
	require.NoError(t, err)

	page, err := svc.BrowseItems(context.Background(), domainitems.Filter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestMarkItemSoldOwnership(t *testing.T) {
	svc := testService()
	created := seedItems(t, svc, 1)

	_, err := svc.MarkItemSold(context.Background(), created[0].ID, "someone-else")
	assert.ErrorIs(t, err, domainitems.ErrNotOwned)

	item, err := svc.MarkItemSold(context.Background(), created[0].ID, "seller-1")
	require.NoError(t, err)
	assert.True(t, item.IsSold)

	_, err = svc.MarkItemSold(context.Background(), created[0].ID, "seller-1")
	assert.ErrorIs(t, err, domainitems.ErrAlreadySold)
}

func TestDeleteItemOwnership(t *testing.T) {
	svc := testService()
	created := seedItems(t, svc, 1)

	err := svc.DeleteItem(context.Background(), created[0].ID, "someone-else")
	assert.ErrorIs(t, err, domainitems.ErrNotOwned)

	require.NoError(t, svc.DeleteItem(context.Background(), created[0].ID, "seller-1"))

	_, err = svc.Item(context.Background(), created[0].ID)
	assert.ErrorIs(t, err, domainitems.ErrNotFound)
}

func TestCreateItemEmitsEvent(t *testing.T) {
	svc := testService()
	sink := &catalogEventSink{}
	svc.Events = sink

	created := seedItems(t, svc, 1)
	require.Len(t, sink.created, 1)
	assert.Equal(t, created[0].ID, sink.created[0].ID)

	_, err := svc.MarkItemSold(context.Background(), created[0].ID, "seller-1")
	require.NoError(t, err)
	assert.Len(t, sink.sold, 1)
}

func TestBrowseRequests(t *testing.T) {
	svc := testService()
	for i := 0; i < 8; i++ {
		_, err := svc.CreateRequest(context.Background(), CreateRequestParams{
			BuyerID: "buyer-1",
			Title:   "Bike",
			Budget:  int64(500 * (i + 1)),
			City:    "Oslo",
		})
		require.NoError(t, err)
	}

	page, err := svc.BrowseRequests(context.Background(), domainrequests.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, page.Requests, 6)
	assert.Equal(t, 8, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.BrowseRequests(context.Background(), domainrequests.Filter{MaxBudget: 1000}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)
}

func TestRequestsByBuyer(t *testing.T) {
	svc := testService()
	_, err := svc.CreateRequest(context.Background(), CreateRequestParams{
		BuyerID: "buyer-1", Title: "Bike", City: "Oslo",
	})
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), CreateRequestParams{
		BuyerID: "buyer-2", Title: "Desk", City: "Oslo",
	})
	require.NoError(t, err)

	mine, err := svc.RequestsByBuyer(context.Background(), "buyer-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

type catalogEventSink struct {
	created []*domainitems.Item
	sold    []*domainitems.Item
	deleted []domainitems.ID
	posted  []*domainrequests.Request
}

func (s *catalogEventSink) ItemCreated(_ context.Context, item *domainitems.Item) {
	s.created = append(s.created, item)
}

func (s *catalogEventSink) ItemSold(_ context.Context, item *domainitems.Item) {
	s.sold = append(s.sold, item)
}

func (s *catalogEventSink) ItemDeleted(_ context.Context, id domainitems.ID) {
	s.deleted = append(s.deleted, id)
}

func (s *catalogEventSink) RequestCreated(_ context.Context, request *domainrequests.Request) {
	s.posted = append(s.posted, request)
}
