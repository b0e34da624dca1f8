package login

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	reqs   []Request
}

// NewMemoryRepository builds an in-memory login-request store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, req Request) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	r.reqs = append(r.reqs, req)
	return req, nil
}

func (r *memoryRepository) LatestActive(_ context.Context, phone string) (Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	best := Request{}
	found := false
	for _, req := range r.reqs {
		if req.Phone != phone || req.Verified || !req.ExpiresAt.After(now) {
			continue
		}
		if !found || req.CreatedAt.After(best.CreatedAt) {
			best = req
			found = true
		}
	}
	if !found {
		return Request{}, ErrNoActiveRequest
	}
	return best, nil
}
