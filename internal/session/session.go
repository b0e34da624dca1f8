package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no live session row matched the token.
var ErrNotFound = errors.New("session not found")

// Session is one login's row. A user may hold several concurrently, one per
// device.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists session rows.
type Repository interface {
	Create(ctx context.Context, s Session) (Session, error)
	// FindByToken returns the row only if it has not expired.
	FindByToken(ctx context.Context, token string) (Session, error)
	// Extend pushes expires_at forward to until, never backwards. Returns the
	// number of rows updated; zero means the row vanished in the meantime.
	Extend(ctx context.Context, token string, until time.Time) (int64, error)
	Delete(ctx context.Context, token string) error
	// DeleteOthers removes every session of the user except keepToken's row.
	DeleteOthers(ctx context.Context, userID int64, keepToken string) (int64, error)
	// ListByUser returns the user's live sessions newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]Session, error)
}
