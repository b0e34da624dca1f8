package session

import (
	"context"
	"log/slog"
	"time"
)

// Service wraps the repository with the sliding-expiry policy.
type Service struct {
	repo      Repository
	extension time.Duration
	logger    *slog.Logger
}

// NewService builds a session service. extension is the sliding window applied
// on each successful validation.
func NewService(repo Repository, extension time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, extension: extension, logger: logger}
}

// Create inserts a fresh session row. Every login gets its own row so
// multi-device sessions coexist.
func (s *Service) Create(ctx context.Context, userID int64, token string, ttl time.Duration) (Session, error) {
	now := time.Now().UTC()
	return s.repo.Create(ctx, Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
}

// Validate returns the live session for the token and slides its expiry
// forward. The slide is best-effort: a concurrent logout or revoke may delete
// the row first, which is accepted, and a datastore failure on the slide never
// fails the validation itself.
func (s *Service) Validate(ctx context.Context, token string) (Session, error) {
	sess, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return Session{}, err
	}

	until := time.Now().Add(s.extension).UTC()
	rows, err := s.repo.Extend(ctx, token, until)
	switch {
	case err != nil:
		s.logger.Warn("session expiry extension failed", "error", err)
	case rows == 0:
		s.logger.Debug("session vanished during expiry extension", "user_id", sess.UserID)
	default:
		if until.After(sess.ExpiresAt) {
			sess.ExpiresAt = until
		}
	}

	return sess, nil
}

// Delete removes the session for the token. Logout is idempotent; deleting an
// absent row succeeds.
func (s *Service) Delete(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, token)
}

// RevokeOthers logs out every other device of the user.
func (s *Service) RevokeOthers(ctx context.Context, userID int64, keepToken string) (int64, error) {
	return s.repo.DeleteOthers(ctx, userID, keepToken)
}

// List returns the user's live sessions newest first.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Session, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
