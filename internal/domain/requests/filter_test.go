package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(t *testing.T, mutate func(*CreateParams)) *Request {
	t.Helper()
	params := CreateParams{
		ID:      "req-1",
		BuyerID: "buyer-1",
		Title:   "Looking for a bike",
		Budget:  2500,
		City:    "Oslo",
		Now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(&params)
	}
	request, err := New(params)
	require.NoError(t, err)
	return request
}

func TestRequestFilterZeroValueMatchesEverything(t *testing.T) {
	var filter Filter
	assert.True(t, filter.Matches(testRequest(t, nil)))
	assert.True(t, filter.Matches(testRequest(t, func(p *CreateParams) {
		p.Budget = 0
		p.QualityMin = 5
		p.DeliveryNeeded = true
	})))
}

func TestRequestFilterBudgetBounds(t *testing.T) {
	request := testRequest(t, func(p *CreateParams) { p.Budget = 1000 })

	assert.True(t, Filter{MinBudget: 1000}.Matches(request))
	assert.False(t, Filter{MinBudget: 1001}.Matches(request))
	assert.True(t, Filter{MaxBudget: 1000}.Matches(request))
	assert.False(t, Filter{MaxBudget: 999}.Matches(request))
	// zero max means unbounded
	assert.True(t, Filter{MaxBudget: 0}.Matches(testRequest(t, func(p *CreateParams) { p.Budget = 5_000_000 })))
}

func TestRequestFilterQualityAndDelivery(t *testing.T) {
	request := testRequest(t, func(p *CreateParams) {
		p.QualityMin = 3
		p.DeliveryNeeded = false
	})

	assert.True(t, Filter{MinQuality: 3}.Matches(request))
	assert.False(t, Filter{MinQuality: 4}.Matches(request))
	assert.False(t, Filter{RequireDelivery: true}.Matches(request))
}

func TestRequestFilterQueryOnTitleAndCity(t *testing.T) {
	request := testRequest(t, func(p *CreateParams) {
		p.Title = "Vintage Lamplight wanted"
		p.City = "Bergen"
	})

	assert.True(t, Filter{Query: "lamp"}.Matches(request))
	assert.True(t, Filter{Query: "BERGEN"}.Matches(request))
	assert.False(t, Filter{Query: "chair"}.Matches(request))
}

func TestRequestFilterQueryIgnoresDescription(t *testing.T) {
	request := testRequest(t, func(p *CreateParams) {
		p.Title = "Bike"
		p.Description = "prefer a Lamplight brand"
	})

	assert.False(t, Filter{Query: "lamplight"}.Matches(request))
}

func TestRequestApplyAndSort(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := testRequest(t, func(p *CreateParams) { p.ID = "old"; p.Now = base.Add(-time.Hour) })
	fresh := testRequest(t, func(p *CreateParams) { p.ID = "fresh"; p.Now = base })

	list := Filter{}.Apply([]*Request{old, fresh})
	require.Len(t, list, 2)

	SortNewestFirst(list)
	assert.Equal(t, ID("fresh"), list[0].ID)
	assert.Equal(t, ID("old"), list[1].ID)
}
