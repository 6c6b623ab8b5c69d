package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buynestt-backend/internal/models"
)

func TestAuthService(t *testing.T) {
	retailer := &models.Retailer{ID: "r-1", Email: "shop@example.com"}

	t.Run("GenerateAndValidate", func(t *testing.T) {
		authService := NewAuthService("test-secret", 3600)

		token, err := authService.GenerateToken(retailer)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := authService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "r-1", claims.RetailerID)
		assert.Equal(t, "shop@example.com", claims.Email)
		assert.Equal(t, "buynestt", claims.Issuer)
	})

	t.Run("WrongSecretIsRejected", func(t *testing.T) {
		authService := NewAuthService("test-secret", 3600)
		other := NewAuthService("different-secret", 3600)

		token, err := authService.GenerateToken(retailer)
		require.NoError(t, err)

		_, err = other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("ExpiredTokenIsRejected", func(t *testing.T) {
		authService := NewAuthService("test-secret", -60)

		token, err := authService.GenerateToken(retailer)
		require.NoError(t, err)

		_, err = authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("GarbageTokenIsRejected", func(t *testing.T) {
		authService := NewAuthService("test-secret", 3600)

		_, err := authService.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("BlacklistRevokesToken", func(t *testing.T) {
		authService := NewAuthService("test-secret", 3600)

		token, err := authService.GenerateToken(retailer)
		require.NoError(t, err)

		_, err = authService.ValidateToken(token)
		require.NoError(t, err)

		require.NoError(t, authService.BlacklistToken(token))
		assert.True(t, authService.IsTokenBlacklisted(token))

		_, err = authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("CleanupDropsExpiredEntries", func(t *testing.T) {
		authService := NewAuthService("test-secret", -60)

		token, err := authService.GenerateToken(retailer)
		require.NoError(t, err)

		require.NoError(t, authService.BlacklistToken(token))
		authService.CleanupExpiredTokens()
		assert.False(t, authService.IsTokenBlacklisted(token))
	})
}
