package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken(7, "admin")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "7", claims.Subject)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := auth.GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, auth.CheckPassword(hash, "admin123"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("not-a-hash", "admin123"))
}
