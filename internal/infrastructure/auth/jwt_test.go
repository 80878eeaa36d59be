package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "hyperflow-test",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "alice@example.com",
		Role:     "manager",
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.TenantID.String(), claims.TenantID)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.HasRole("admin", "manager"))
	assert.False(t, claims.HasRole("admin"))
	assert.Greater(t, claims.GetRemainingTTL(), 14*time.Minute)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role, "refresh tokens carry identity only")
}

func TestValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token used as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken, "signed with a different secret")
	})

	t.Run("wrong type with shared secret", func(t *testing.T) {
		shared := NewJWTService(config.JWTConfig{
			Secret:                 "same-secret",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "hyperflow-test",
			MaxRefreshCount:        1,
		})
		p, err := shared.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)
		_, err = shared.ValidateAccessToken(p.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		p, err := past.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "someone-else",
		})
		p, err := other.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	rotated, err := svc.RefreshTokenPair(pair.RefreshToken, sub.Email, "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role, "role is refreshed")
	assert.Equal(t, sub.UserID.String(), claims.UserID)

	refreshClaims, err := svc.ValidateRefreshToken(rotated.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)

	second, err := svc.RefreshTokenPair(rotated.RefreshToken, sub.Email, "admin")
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(second.RefreshToken, sub.Email, "admin")
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)

	_, err = svc.RefreshTokenPair(pair.AccessToken, sub.Email, "admin")
	assert.Error(t, err)
}
