package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	codec, err := NewCodec([]string{"primary"}, time.Hour)
	require.NoError(t, err)

	signed, err := codec.Sign(Claims{UserID: 42, Phone: "15550001111", Email: "a@b.c"})
	require.NoError(t, err)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "15550001111", claims.Phone)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestVerifyAcceptsFallbackSecret(t *testing.T) {
	old, err := NewCodec([]string{"old-secret"}, time.Hour)
	require.NoError(t, err)
	signed, err := old.Sign(Claims{UserID: 7})
	require.NoError(t, err)

	// Rotated codec: new primary, old secret kept in the fallback list.
	rotated, err := NewCodec([]string{"new-secret", "old-secret"}, time.Hour)
	require.NoError(t, err)

	claims, err := rotated.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestVerifyRejectsUnknownSecret(t *testing.T) {
	other, err := NewCodec([]string{"somebody-else"}, time.Hour)
	require.NoError(t, err)
	signed, err := other.Sign(Claims{UserID: 7})
	require.NoError(t, err)

	codec, err := NewCodec([]string{"primary", "fallback"}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec, err := NewCodec([]string{"primary"}, -time.Minute)
	require.NoError(t, err)
	signed, err := codec.Sign(Claims{UserID: 7})
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTampered(t *testing.T) {
	codec, err := NewCodec([]string{"primary"}, time.Hour)
	require.NoError(t, err)
	signed, err := codec.Sign(Claims{UserID: 7})
	require.NoError(t, err)

	_, err = codec.Verify(signed + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewCodecRequiresSecrets(t *testing.T) {
	_, err := NewCodec(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewCodec([]string{""}, time.Hour)
	assert.Error(t, err)
}
