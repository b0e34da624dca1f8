package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/waport/waport/internal/session"
	"github.com/waport/waport/internal/token"
	"github.com/waport/waport/internal/user"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("access token required")
	// ErrInvalidSession covers expired, forged and orphaned tokens alike.
	// Callers must not learn which.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Guard authenticates incoming requests: bearer header -> token codec ->
// session row -> user row. The session row is the source of truth for current
// validity; the signed claim only hints at the user.
type Guard struct {
	codec    *token.Codec
	sessions *session.Service
	users    user.Repository
	logger   *slog.Logger
}

// NewGuard composes the codec, session service and user repository.
func NewGuard(codec *token.Codec, sessions *session.Service, users user.Repository, logger *slog.Logger) *Guard {
	return &Guard{codec: codec, sessions: sessions, users: users, logger: logger}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authorization string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(authorization[len("bearer "):])
	return tok, tok != ""
}

// Authenticate resolves the request's bearer token to a user. It returns the
// token string alongside so callers can key follow-up operations (revoke,
// logout) on the exact presented credential.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (user.User, string, error) {
	tok, ok := BearerToken(authorization)
	if !ok {
		return user.User{}, "", ErrMissingToken
	}

	if _, err := g.codec.Verify(tok); err != nil {
		return user.User{}, "", ErrInvalidSession
	}

	sess, err := g.sessions.Validate(ctx, tok)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return user.User{}, "", ErrInvalidSession
		}
		return user.User{}, "", err
	}

	u, err := g.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Account deleted after the session was issued.
			return user.User{}, "", ErrInvalidSession
		}
		return user.User{}, "", err
	}

	return u, tok, nil
}
