package catalog

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu   sync.RWMutex
	pkgs []Package
}

// NewMemoryRepository builds an in-memory catalog seeded with the given
// packages, for testing.
func NewMemoryRepository(pkgs ...Package) Repository {
	return &memoryRepository{pkgs: pkgs}
}

func (r *memoryRepository) ListActive(_ context.Context) ([]Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Package
	for _, p := range r.pkgs {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}
