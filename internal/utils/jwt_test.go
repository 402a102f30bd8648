package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user-1", "admin", 15)
	require.NoError(t, err)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user-1", "user", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user-1", "user", -5)
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_MissingSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "user"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_HashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	assert.NotEqual(t, rt.Raw, HashRefreshRaw(rt.Raw))
}

func TestPassword_HashAndVerify(t *testing.T) {
	h, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "correct horse"))
	assert.False(t, VerifyPassword(h, "battery staple"))
}
