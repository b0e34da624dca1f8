package login

import (
	"context"
	"errors"
	"time"
)

// ErrNoActiveRequest indicates no unverified, unexpired login request exists
// for the phone.
var ErrNoActiveRequest = errors.New("no active login request")

// Request is one short-lived QR/SMS login challenge. Rows become inert once
// expired or verified; the newest row per phone wins.
type Request struct {
	ID        int64
	Phone     string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository persists login requests. Creation normally happens in the
// messaging bot; it is exposed here for the bot-facing internals and tests.
type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	// LatestActive returns the most recent unverified, unexpired request for
	// the phone, or ErrNoActiveRequest.
	LatestActive(ctx context.Context, phone string) (Request, error)
}

// Status states reported to polling clients.
const (
	StateActive  = "active"
	StateExpired = "expired"
)

// Status is the poll answer for one phone.
type Status struct {
	State      string
	TimeLeftMs int64
	ExpiresAt  time.Time
}

// Tracker reports the state of pending login challenges.
type Tracker struct {
	repo               Repository
	defaultCountryCode string
}

// NewTracker builds a tracker using the deployment's default country code for
// phone normalization.
func NewTracker(repo Repository, defaultCountryCode string) *Tracker {
	return &Tracker{repo: repo, defaultCountryCode: defaultCountryCode}
}

// Status reports whether the phone has a live login challenge. Expired,
// verified and never-issued all look the same to the caller.
func (t *Tracker) Status(ctx context.Context, rawPhone string) (Status, error) {
	phone := NormalizePhone(rawPhone, t.defaultCountryCode)
	if phone == "" {
		return Status{State: StateExpired}, nil
	}

	req, err := t.repo.LatestActive(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNoActiveRequest) {
			return Status{State: StateExpired}, nil
		}
		return Status{}, err
	}

	left := time.Until(req.ExpiresAt).Milliseconds()
	if left < 0 {
		left = 0
	}
	return Status{State: StateActive, TimeLeftMs: left, ExpiresAt: req.ExpiresAt}, nil
}
