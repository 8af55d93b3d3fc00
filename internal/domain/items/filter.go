package items

import (
	"sort"
	"strings"
)

// Filter holds the browse-view configuration. The zero value matches every
// listing: each rule is vacuously true while its field sits at the default.
type Filter struct {
	MinPrice        int64
	MaxPrice        int64 // 0 means unbounded
	MinQuality      int
	City            string
	RequireReceipt  bool
	RequireDelivery bool
	RequireVerified bool
	Query           string
}

// Matches reports whether the item satisfies every configured rule.
// All rules compose with logical AND; absent boolean flags on the item
// behave as false.
func (f Filter) Matches(item *Item) bool {
	if item == nil {
		return false
	}
	if item.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && item.Price > f.MaxPrice {
		return false
	}
	if item.QualityRating < f.MinQuality {
		return false
	}
	if f.City != "" && item.City != f.City {
		return false
	}
	if f.RequireReceipt && !item.HasReceipt {
		return false
	}
	if f.RequireDelivery && !item.HasDelivery {
		return false
	}
	if f.RequireVerified && !item.IsVerified {
		return false
	}
	return f.matchesQuery(item)
}

// matchesQuery is a case-insensitive substring match confined to the item
// name and city. No tokenization or diacritic folding.
func (f Filter) matchesQuery(item *Item) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), query) ||
		strings.Contains(strings.ToLower(item.City), query)
}

// Apply keeps the matching items, preserving input order.
func (f Filter) Apply(all []*Item) []*Item {
	kept := make([]*Item, 0, len(all))
	for _, item := range all {
		if f.Matches(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

// SortNewestFirst orders by creation time descending. Store return order is
// not guaranteed stable across calls, so browse views sort before slicing.
func SortNewestFirst(list []*Item) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
