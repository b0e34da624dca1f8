package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	sessions map[string]Session
}

// NewMemoryRepository builds an in-memory session store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{sessions: make(map[string]Session)}
}

func (r *memoryRepository) Create(_ context.Context, s Session) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.sessions[s.Token] = s
	return s, nil
}

func (r *memoryRepository) FindByToken(_ context.Context, token string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepository) Extend(_ context.Context, token string, until time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return 0, nil
	}
	if until.After(s.ExpiresAt) {
		s.ExpiresAt = until
		r.sessions[token] = s
	}
	return 1, nil
}

func (r *memoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memoryRepository) DeleteOthers(_ context.Context, userID int64, keepToken string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, s := range r.sessions {
		if s.UserID == userID && token != keepToken {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	var out []Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
