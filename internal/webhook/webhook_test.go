package webhook

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateIssuesCallbackURL(t *testing.T) {
	m := NewManager(NewMemoryRepository(), "https://api.example.com/")
	ctx := context.Background()

	url, err := m.Rotate(ctx, 7)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://api.example.com/api/v1/webhook/incoming/"), url)

	tok := url[strings.LastIndex(url, "/")+1:]
	assert.Len(t, tok, 48) // 24 random bytes, hex encoded

	userID, err := m.VerifyInbound(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestRotateReplacesPreviousToken(t *testing.T) {
	m := NewManager(NewMemoryRepository(), "https://api.example.com")
	ctx := context.Background()

	first, err := m.Rotate(ctx, 7)
	require.NoError(t, err)
	second, err := m.Rotate(ctx, 7)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	firstTok := first[strings.LastIndex(first, "/")+1:]
	secondTok := second[strings.LastIndex(second, "/")+1:]

	_, err = m.VerifyInbound(ctx, firstTok)
	assert.ErrorIs(t, err, ErrUnknownToken)

	userID, err := m.VerifyInbound(ctx, secondTok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestVerifyInboundUnknownToken(t *testing.T) {
	m := NewManager(NewMemoryRepository(), "https://api.example.com")

	_, err := m.VerifyInbound(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrUnknownToken)
}
