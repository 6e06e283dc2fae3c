package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestJWT(t *testing.T) {
	j, err := New("test-secret")
	require.NoError(t, err)

	t.Run("validate invalid token", func(t *testing.T) {
		_, err := j.ValidateToken("invalid-token")
		assert.Error(t, err)
	})

	t.Run("validate expired token", func(t *testing.T) {
		token, err := j.GenerateToken("7", []string{"admin"}, -time.Minute)
		require.NoError(t, err)

		_, err = j.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("validate token signed with another secret", func(t *testing.T) {
		other, err := New("other-secret")
		require.NoError(t, err)
		token, err := other.GenerateToken("7", []string{"admin"}, time.Minute)
		require.NoError(t, err)

		_, err = j.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("reject unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Roles: []string{"admin"}}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = j.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("validate valid token", func(t *testing.T) {
		token, err := j.GenerateToken("7", []string{"user", "admin"}, time.Minute)
		require.NoError(t, err)

		claims, err := j.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "7", claims.Subject)
		assert.True(t, claims.HasRole("admin"))
		assert.False(t, claims.HasRole("owner"))
	})
}
