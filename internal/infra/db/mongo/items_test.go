package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainitems "thriftee/internal/domain/items"
)

func TestItemDocumentDefaultsAbsentImages(t *testing.T) {
	doc := itemDocument{
		ID:        "item-1",
		SellerID:  "seller-1",
		Name:      "Chair",
		Price:     100,
		City:      "Bergen",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
	}

	item := doc.toEntity()
	require.NotNil(t, item.Images)
	assert.Empty(t, item.Images)
	assert.Equal(t, domainitems.ID("item-1"), item.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), item.CreatedAt)
}

func TestItemDocumentRoundTrip(t *testing.T) {
	item := &domainitems.Item{
		ID:            "item-1",
		SellerID:      "seller-1",
		Name:          "Chair",
		Price:         100,
		City:          "Bergen",
		Images:        []string{"https://cdn.example.com/chair.jpg"},
		QualityRating: 4,
		HasDelivery:   true,
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	got := newItemDocument(item).toEntity()
	assert.Equal(t, item, got)
}
