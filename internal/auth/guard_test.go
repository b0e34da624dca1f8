package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waport/waport/internal/logging"
	"github.com/waport/waport/internal/session"
	"github.com/waport/waport/internal/token"
	"github.com/waport/waport/internal/user"
)

type guardFixture struct {
	guard    *Guard
	codec    *token.Codec
	sessions *session.Service
	users    user.Repository
}

func newGuardFixture(t *testing.T) guardFixture {
	t.Helper()
	codec, err := token.NewCodec([]string{"primary", "fallback"}, time.Hour)
	require.NoError(t, err)
	users := user.NewMemoryRepository(nil)
	sessions := session.NewService(session.NewMemoryRepository(), 10*time.Minute, logging.Discard())
	return guardFixture{
		guard:    NewGuard(codec, sessions, users, logging.Discard()),
		codec:    codec,
		sessions: sessions,
		users:    users,
	}
}

// login creates a user, signs a token for it and opens a session row.
func (f guardFixture) login(t *testing.T) (user.User, string) {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Create(ctx, user.User{Email: "a@b.c", Role: user.RoleUser})
	require.NoError(t, err)
	signed, err := f.codec.Sign(token.Claims{UserID: u.ID, Email: u.Email})
	require.NoError(t, err)
	_, err = f.sessions.Create(ctx, u.ID, signed, time.Hour)
	require.NoError(t, err)
	return u, signed
}

func TestAuthenticateSuccess(t *testing.T) {
	f := newGuardFixture(t)
	u, signed := f.login(t)

	got, tok, err := f.guard.Authenticate(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, signed, tok)
}

func TestAuthenticateMissingToken(t *testing.T) {
	f := newGuardFixture(t)

	for _, header := range []string{"", "Bearer ", "Basic abc", "tokenwithoutscheme"} {
		_, _, err := f.guard.Authenticate(context.Background(), header)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	f := newGuardFixture(t)

	_, _, err := f.guard.Authenticate(context.Background(), "Bearer garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAuthenticateTokenWithoutSessionRow(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()
	u, err := f.users.Create(ctx, user.User{Email: "a@b.c"})
	require.NoError(t, err)

	// Cryptographically valid token, but no session row: the row is the
	// source of truth.
	signed, err := f.codec.Sign(token.Claims{UserID: u.ID})
	require.NoError(t, err)

	_, _, err = f.guard.Authenticate(ctx, "Bearer "+signed)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAuthenticateRevokedSession(t *testing.T) {
	f := newGuardFixture(t)
	_, signed := f.login(t)
	require.NoError(t, f.sessions.Delete(context.Background(), signed))

	_, _, err := f.guard.Authenticate(context.Background(), "Bearer "+signed)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f := newGuardFixture(t)
	u, signed := f.login(t)

	remover, ok := f.users.(interface{ Delete(context.Context, int64) })
	require.True(t, ok)
	remover.Delete(context.Background(), u.ID)

	_, _, err := f.guard.Authenticate(context.Background(), "Bearer "+signed)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("")
	assert.False(t, ok)
}
