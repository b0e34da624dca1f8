package ledger

import (
	"context"
	"time"
)

// Type classifies a ledger entry.
type Type string

const (
	// TypeCredit adds units to a user's balance.
	TypeCredit Type = "credit"
	// TypeDebit consumes units.
	TypeDebit Type = "debit"
)

const (
	// WelcomeBonus is the fixed credit granted on successful registration.
	WelcomeBonus = 10
	// ReasonWelcomeBonus tags the registration grant.
	ReasonWelcomeBonus = "welcome_bonus"
)

// Transaction is one append-only ledger entry. Entries are never mutated or
// deleted.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      Type      `json:"type"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists credit transactions.
type Repository interface {
	Record(ctx context.Context, tx Transaction) error
	// ListByUser returns the user's transactions newest first. An empty
	// typeFilter returns all entries; limit must already be clamped by the
	// caller.
	ListByUser(ctx context.Context, userID int64, typeFilter Type, limit int) ([]Transaction, error)
}
