package user

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/waport/waport/internal/ledger"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]User
	credits ledger.Repository
}

// NewMemoryRepository builds an in-memory user store for testing. credits
// backs CreateWithCredit and may be nil when that path is not exercised.
func NewMemoryRepository(credits ledger.Repository) Repository {
	return &memoryRepository{users: make(map[int64]User), credits: credits}
}

func (r *memoryRepository) Create(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(u)
}

// CreateWithCredit mirrors the transactional Postgres path: a failed credit
// write removes the just-created user so no orphaned account survives.
func (r *memoryRepository) CreateWithCredit(ctx context.Context, u User, grant ledger.Transaction) (User, error) {
	if r.credits == nil {
		return User{}, errors.New("memory repository has no ledger attached")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	created, err := r.createLocked(u)
	if err != nil {
		return User{}, err
	}
	grant.UserID = created.ID
	if err := r.credits.Record(ctx, grant); err != nil {
		delete(r.users, created.ID)
		return User{}, err
	}
	return created, nil
}

func (r *memoryRepository) createLocked(u User) (User, error) {
	for _, existing := range r.users {
		if u.Email != "" && existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
		if u.Phone != "" && existing.Phone == u.Phone {
			return User{}, ErrPhoneTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// Delete removes a user. Only the in-memory store supports this; it exists so
// tests can exercise the deleted-account authentication path.
func (r *memoryRepository) Delete(_ context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}
