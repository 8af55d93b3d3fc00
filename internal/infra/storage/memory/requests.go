package memory

import (
	"context"
	"sync"

	domainrequests "thriftee/internal/domain/requests"
)

// RequestRepository stores want-to-buy posts in memory.
type RequestRepository struct {
	mu       sync.RWMutex
	requests map[domainrequests.ID]*domainrequests.Request
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{requests: make(map[domainrequests.ID]*domainrequests.Request)}
}

func (r *RequestRepository) ByID(ctx context.Context, id domainrequests.ID) (*domainrequests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if req, ok := r.requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, domainrequests.ErrNotFound
}

func (r *RequestRepository) ByBuyer(ctx context.Context, buyerID string) ([]*domainrequests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrequests.Request, 0)
	for _, req := range r.requests {
		if req.BuyerID == buyerID {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

func (r *RequestRepository) All(ctx context.Context) ([]*domainrequests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrequests.Request, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func (r *RequestRepository) Save(ctx context.Context, req *domainrequests.Request) error {
	if req == nil || req.ID == "" {
		return domainrequests.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id domainrequests.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return domainrequests.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

func cloneRequest(req *domainrequests.Request) *domainrequests.Request {
	if req == nil {
		return nil
	}
	copied := *req
	return &copied
}
