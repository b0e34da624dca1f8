package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/waport/waport/internal/logging"
)

func newTestService(extension time.Duration) *Service {
	return NewService(NewMemoryRepository(), extension, logging.Discard())
}

// brokenExtendRepository fails every slide while leaving reads intact.
type brokenExtendRepository struct {
	Repository
}

func (r *brokenExtendRepository) Extend(context.Context, string, time.Time) (int64, error) {
	return 0, errors.New("datastore unavailable")
}

// vanishingExtendRepository reports the row gone by the time the slide runs.
type vanishingExtendRepository struct {
	Repository
}

func (r *vanishingExtendRepository) Extend(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func TestValidateSucceedsWhenSlideFails(t *testing.T) {
	repo := &brokenExtendRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo, 10*time.Minute, logging.Discard())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "tok-slide-fail", time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	validated, err := svc.Validate(ctx, "tok-slide-fail")
	if err != nil {
		t.Fatalf("validate must survive a failed slide: %v", err)
	}
	if validated.Token != created.Token || validated.UserID != created.UserID {
		t.Fatalf("unexpected session: %+v", validated)
	}
	if !validated.ExpiresAt.Equal(created.ExpiresAt) {
		t.Fatalf("expiry must stay at %v when the slide fails, got %v", created.ExpiresAt, validated.ExpiresAt)
	}
}

func TestValidateSucceedsWhenRowVanishesDuringSlide(t *testing.T) {
	repo := &vanishingExtendRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo, 10*time.Minute, logging.Discard())
	ctx := context.Background()

	created, err := svc.Create(ctx, 2, "tok-vanish", time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	validated, err := svc.Validate(ctx, "tok-vanish")
	if err != nil {
		t.Fatalf("validate must tolerate a concurrent delete: %v", err)
	}
	if !validated.ExpiresAt.Equal(created.ExpiresAt) {
		t.Fatalf("expiry must be untouched on a zero-row slide, got %v", validated.ExpiresAt)
	}
}

func TestValidateSlidesExpiryForward(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "tok-short", 2*time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	validated, err := svc.Validate(ctx, "tok-short")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !validated.ExpiresAt.After(created.ExpiresAt) {
		t.Fatalf("expected expiry to slide past %v, got %v", created.ExpiresAt, validated.ExpiresAt)
	}
	if validated.UserID != 1 || validated.Token != "tok-short" {
		t.Fatalf("validate must not change owner or token: %+v", validated)
	}

	// A second validation keeps the window sliding.
	again, err := svc.Validate(ctx, "tok-short")
	if err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if again.ExpiresAt.Before(validated.ExpiresAt) {
		t.Fatalf("expiry went backwards: %v -> %v", validated.ExpiresAt, again.ExpiresAt)
	}
}

func TestValidateNeverShortensExpiry(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "tok-long", 24*time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	validated, err := svc.Validate(ctx, "tok-long")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.ExpiresAt.Before(created.ExpiresAt) {
		t.Fatalf("expiry shortened from %v to %v", created.ExpiresAt, validated.ExpiresAt)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	if _, err := svc.Validate(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()
	if _, err := svc.Create(ctx, 1, "tok-dead", -time.Minute); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Validate(ctx, "tok-dead"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for expired row, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()
	if _, err := svc.Create(ctx, 1, "tok", time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "tok"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := svc.Validate(ctx, "tok"); err != ErrNotFound {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
}

func TestRevokeOthersKeepsPresentedSession(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()

	for _, tok := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, 1, tok, time.Hour); err != nil {
			t.Fatalf("create %s: %v", tok, err)
		}
	}
	if _, err := svc.Create(ctx, 2, "other-user", time.Hour); err != nil {
		t.Fatalf("create other-user: %v", err)
	}

	revoked, err := svc.RevokeOthers(ctx, 1, "b")
	if err != nil {
		t.Fatalf("revoke others: %v", err)
	}
	if revoked != 2 {
		t.Fatalf("expected 2 revoked, got %d", revoked)
	}

	if _, err := svc.Validate(ctx, "b"); err != nil {
		t.Fatalf("kept session must survive: %v", err)
	}
	for _, tok := range []string{"a", "c"} {
		if _, err := svc.Validate(ctx, tok); err != ErrNotFound {
			t.Fatalf("sibling %s must be gone, got %v", tok, err)
		}
	}
	if _, err := svc.Validate(ctx, "other-user"); err != nil {
		t.Fatalf("another user's session must survive: %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	svc := newTestService(10 * time.Minute)
	ctx := context.Background()
	repo := svc.repo

	base := time.Now()
	for i, tok := range []string{"s1", "s2", "s3"} {
		if _, err := repo.Create(ctx, Session{
			UserID:    1,
			Token:     tok,
			ExpiresAt: base.Add(time.Hour),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("create %s: %v", tok, err)
		}
	}

	sessions, err := svc.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Token != "s3" || sessions[1].Token != "s2" {
		t.Fatalf("expected newest first, got %s, %s", sessions[0].Token, sessions[1].Token)
	}
}
