package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider(t *testing.T) {
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	newProvider := func() *JWTProvider {
		p := NewJWTProvider("secret", time.Hour, 24*time.Hour)
		p.now = func() time.Time { return now }
		return p
	}

	t.Run("round trips an admin access token", func(t *testing.T) {
		p := newProvider()

		token, err := p.GenerateAccessToken("ops@kino.de", RoleAdmin)
		require.NoError(t, err)
		claims, err := p.ParseAccessToken(token)

		require.NoError(t, err)
		assert.Equal(t, "ops@kino.de", claims.Subject)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.Equal(t, TypeAccess, claims.TokenType)
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.NoError(t, RequireAdmin(claims))
	})

	t.Run("defaults to user role", func(t *testing.T) {
		p := newProvider()

		token, err := p.GenerateAccessToken("anna@kino.de", "")
		require.NoError(t, err)
		claims, err := p.ParseAccessToken(token)

		require.NoError(t, err)
		assert.Equal(t, RoleUser, claims.Role)
		assert.ErrorIs(t, RequireAdmin(claims), ErrNotAdmin)
	})

	t.Run("round trips a refresh token", func(t *testing.T) {
		p := newProvider()

		token, err := p.GenerateRefreshToken("anna@kino.de", RoleUser)
		require.NoError(t, err)
		claims, err := p.ParseRefreshToken(token)

		require.NoError(t, err)
		assert.Equal(t, "anna@kino.de", claims.Subject)
		assert.Equal(t, TypeRefresh, claims.TokenType)
		assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("does not mix token types", func(t *testing.T) {
		p := newProvider()
		access, err := p.GenerateAccessToken("anna@kino.de", RoleAdmin)
		require.NoError(t, err)
		refresh, err := p.GenerateRefreshToken("anna@kino.de", RoleAdmin)
		require.NoError(t, err)

		_, err = p.ParseRefreshToken(access)
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = p.ParseAccessToken(refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		p := newProvider()
		token, err := p.GenerateAccessToken("ops@kino.de", RoleAdmin)
		require.NoError(t, err)

		p.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err = p.ParseAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token, err := NewJWTProvider("other", time.Hour, time.Hour).GenerateAccessToken("ops@kino.de", RoleAdmin)
		require.NoError(t, err)

		_, err = newProvider().ParseAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token without type", func(t *testing.T) {
		claims := Claims{Role: RoleAdmin, RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "ops@kino.de",
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		}}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = newProvider().ParseAccessToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, RequireAdmin(&claims), ErrNotAdmin)
	})

	t.Run("refuses to sign without secret", func(t *testing.T) {
		_, err := NewJWTProvider("", time.Hour, time.Hour).GenerateAccessToken("ops@kino.de", RoleAdmin)

		assert.Error(t, err)
	})
}
