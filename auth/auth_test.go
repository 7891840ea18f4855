package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineAuthenticateDeterministicUUID(t *testing.T) {
	a := NewOffline("Notch")
	p1, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	p2, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, p1.UUID, p2.UUID)
	assert.Equal(t, "Notch", p1.Name)
	assert.NotEqual(t, [16]byte{}, p1.UUID)
}

func TestOfflineUUIDDiffersByName(t *testing.T) {
	a1, _ := NewOffline("Alice").Authenticate(context.Background())
	a2, _ := NewOffline("Bob").Authenticate(context.Background())
	assert.NotEqual(t, a1.UUID, a2.UUID)
}

func TestTokenSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	tok := PersistedToken{
		Type:        TypeMicrosoft,
		AccessToken: "abc123",
		PlayerName:  "Steve",
		PlayerUUID:  "00000000-0000-0000-0000-000000000001",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, SaveToken(path, tok))

	loaded, ok, err := LoadToken(path, time.Now())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tok.AccessToken, loaded.AccessToken)
}

func TestTokenLoadDiscardsExpired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	tok := PersistedToken{ExpiresAt: time.Now().Add(-time.Hour).Unix()}
	require.NoError(t, SaveToken(path, tok))

	_, ok, err := LoadToken(path, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenLoadMissingFile(t *testing.T) {
	_, ok, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"), time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthErrorUnwrap(t *testing.T) {
	inner := os.ErrClosed
	e := &AuthError{Kind: ErrorNetwork, Err: inner}
	assert.ErrorIs(t, e, inner)
	assert.Contains(t, e.Error(), "Network")
}
