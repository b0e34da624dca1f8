package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token fails verification against every
// accepted secret. Expired, tampered and malformed tokens are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload embedded in a signed token. The user identifier is
// the only required field; phone and email travel along as hints.
type Claims struct {
	UserID int64  `json:"uid"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs tokens with a primary secret and verifies them against an
// ordered list of accepted secrets, supporting zero-downtime secret rotation.
type Codec struct {
	secrets [][]byte
	ttl     time.Duration
}

// NewCodec builds a codec. The first secret signs; all of them verify.
func NewCodec(secrets []string, ttl time.Duration) (*Codec, error) {
	if len(secrets) == 0 {
		return nil, fmt.Errorf("at least one secret is required")
	}
	raw := make([][]byte, len(secrets))
	for i, s := range secrets {
		if s == "" {
			return nil, fmt.Errorf("secret %d is empty", i)
		}
		raw[i] = []byte(s)
	}
	return &Codec{secrets: raw, ttl: ttl}, nil
}

// Sign issues an HS256 token for the claim, expiring after the configured TTL.
func (c *Codec) Sign(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	// A unique id keeps two same-second logins from minting identical
	// tokens; the session table requires token uniqueness.
	claims.ID = uuid.NewString()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secrets[0])
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify tries each accepted secret in order and returns the claims from the
// first successful decode. All failures collapse into ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	for _, secret := range c.secrets {
		claims := Claims{}
		tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err == nil && tok.Valid {
			return claims, nil
		}
	}
	return Claims{}, ErrInvalidToken
}
