package requests

import (
	"sort"
	"strings"
)

// Filter mirrors the item browse filter for want-to-buy posts. Budget takes
// the place of price, and the quality rule compares against the requester's
// own minimum-quality threshold.
type Filter struct {
	MinBudget       int64
	MaxBudget       int64 // 0 means unbounded
	MinQuality      int
	City            string
	RequireDelivery bool
	Query           string
}

func (f Filter) Matches(req *Request) bool {
	if req == nil {
		return false
	}
	if req.Budget < f.MinBudget {
		return false
	}
	if f.MaxBudget > 0 && req.Budget > f.MaxBudget {
		return false
	}
	if req.QualityMin < f.MinQuality {
		return false
	}
	if f.City != "" && req.City != f.City {
		return false
	}
	if f.RequireDelivery && !req.DeliveryNeeded {
		return false
	}
	return f.matchesQuery(req)
}

func (f Filter) matchesQuery(req *Request) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(req.Title), query) ||
		strings.Contains(strings.ToLower(req.City), query)
}

// Apply keeps the matching requests, preserving input order.
func (f Filter) Apply(all []*Request) []*Request {
	kept := make([]*Request, 0, len(all))
	for _, req := range all {
		if f.Matches(req) {
			kept = append(kept, req)
		}
	}
	return kept
}

func SortNewestFirst(list []*Request) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
