package memory

import (
	"context"
	"sync"

	domainitems "thriftee/internal/domain/items"
)

// ItemRepository stores listings in memory. Not suitable for production.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[domainitems.ID]*domainitems.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[domainitems.ID]*domainitems.Item)}
}

func (r *ItemRepository) ByID(ctx context.Context, id domainitems.ID) (*domainitems.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[id]; ok {
		return cloneItem(item), nil
	}
	return nil, domainitems.ErrNotFound
}

func (r *ItemRepository) BySeller(ctx context.Context, sellerID string) ([]*domainitems.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainitems.Item, 0)
	for _, item := range r.items {
		if item.SellerID == sellerID {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

func (r *ItemRepository) Unsold(ctx context.Context) ([]*domainitems.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainitems.Item, 0, len(r.items))
	for _, item := range r.items {
		if item.IsSold {
			continue
		}
		out = append(out, cloneItem(item))
	}
	return out, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domainitems.Item) error {
	if item == nil || item.ID == "" {
		return domainitems.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id domainitems.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainitems.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneItem(item *domainitems.Item) *domainitems.Item {
	if item == nil {
		return nil
	}
	copied := *item
	copied.Images = append([]string(nil), item.Images...)
	return &copied
}
