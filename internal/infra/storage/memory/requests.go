package memory

import (
	"context"
	"sort"
	"sync"

	domainrequest "lendme/internal/domain/request"
	"lendme/internal/domain/shared/page"
)

// RequestRepository stores item requests in memory.
type RequestRepository struct {
	mu       sync.RWMutex
	nextID   int64
	requests map[int64]*domainrequest.Request
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{requests: make(map[int64]*domainrequest.Request)}
}

func (r *RequestRepository) Create(ctx context.Context, req *domainrequest.Request) (*domainrequest.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneRequest(req)
	stored.ID = r.nextID
	r.requests[stored.ID] = stored
	return cloneRequest(stored), nil
}

func (r *RequestRepository) ByID(ctx context.Context, id int64) (*domainrequest.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domainrequest.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (r *RequestRepository) ByRequesterID(ctx context.Context, requesterID int64) ([]*domainrequest.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := r.collect(func(req *domainrequest.Request) bool { return req.RequesterID == requesterID })
	return matches, nil
}

func (r *RequestRepository) ByOtherRequesters(ctx context.Context, requesterID int64, p page.Page) ([]*domainrequest.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := r.collect(func(req *domainrequest.Request) bool { return req.RequesterID != requesterID })
	start, end := p.Bounds(len(matches))
	return matches[start:end], nil
}

// collect returns matches newest first.
func (r *RequestRepository) collect(match func(*domainrequest.Request) bool) []*domainrequest.Request {
	matches := make([]*domainrequest.Request, 0)
	for _, req := range r.requests {
		if match(req) {
			matches = append(matches, cloneRequest(req))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Created.Equal(matches[j].Created) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].Created.After(matches[j].Created)
	})
	return matches
}

func cloneRequest(r *domainrequest.Request) *domainrequest.Request {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}
