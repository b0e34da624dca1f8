package webhook

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byUser map[int64]Token
}

// NewMemoryRepository builds an in-memory webhook token store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUser: make(map[int64]Token)}
}

func (r *memoryRepository) Upsert(_ context.Context, t Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[t.UserID] = t
	return nil
}

func (r *memoryRepository) FindByToken(_ context.Context, tok string) (Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.byUser {
		if t.Token == tok {
			return t, nil
		}
	}
	return Token{}, ErrUnknownToken
}
