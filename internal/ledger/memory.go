package ledger

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	txs    []Transaction
}

// NewMemoryRepository builds an in-memory ledger for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Record(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tx.ID = r.nextID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.txs = append(r.txs, tx)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64, typeFilter Type, limit int) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Transaction
	for i := len(r.txs) - 1; i >= 0 && len(out) < limit; i-- {
		tx := r.txs[i]
		if tx.UserID != userID {
			continue
		}
		if typeFilter != "" && tx.Type != typeFilter {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}
