package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownToken indicates no webhook token row matched an inbound call.
var ErrUnknownToken = errors.New("unknown webhook token")

// Token is a user's current webhook credential. Exactly one row exists per
// user; rotation replaces it wholesale.
type Token struct {
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// Repository persists webhook tokens.
type Repository interface {
	// Upsert inserts the token or replaces the user's existing one. The
	// replacement invalidates the prior token at commit.
	Upsert(ctx context.Context, t Token) error
	FindByToken(ctx context.Context, token string) (Token, error)
}

// Manager issues and verifies webhook tokens.
type Manager struct {
	repo    Repository
	baseURL string
}

// NewManager builds a webhook token manager. baseURL is the externally
// reachable origin embedded in callback URLs.
func NewManager(repo Repository, baseURL string) *Manager {
	return &Manager{repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// Rotate mints a fresh opaque token for the user, replaces any prior one and
// returns the callback URL embedding it. First issue and rotation share this
// path: the upsert is keyed on the user-id uniqueness constraint.
func (m *Manager) Rotate(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate webhook token: %w", err)
	}
	tok := hex.EncodeToString(buf)

	if err := m.repo.Upsert(ctx, Token{UserID: userID, Token: tok, CreatedAt: time.Now().UTC()}); err != nil {
		return "", err
	}
	return m.baseURL + "/api/v1/webhook/incoming/" + tok, nil
}

// VerifyInbound resolves an inbound path token to its owning user. Webhook
// tokens carry no expiry; they live until rotated away.
func (m *Manager) VerifyInbound(ctx context.Context, tok string) (int64, error) {
	row, err := m.repo.FindByToken(ctx, tok)
	if err != nil {
		return 0, err
	}
	return row.UserID, nil
}
