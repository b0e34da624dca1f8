package settings

import (
	"context"
	"sync"
)

// NewMemoryRepository builds an in-memory settings store for testing.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[int64]bool)}
}

// MemoryRepository is an in-memory settings store for testing. It exposes
// Notifications so tests can observe the stored preference.
type MemoryRepository struct {
	mu    sync.RWMutex
	prefs map[int64]bool
}

// SetNotifications records the preference.
func (r *MemoryRepository) SetNotifications(_ context.Context, userID int64, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[userID] = enabled
	return nil
}

// Notifications reports the stored preference; the default is enabled.
func (r *MemoryRepository) Notifications(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enabled, ok := r.prefs[userID]
	if !ok {
		return true
	}
	return enabled
}
