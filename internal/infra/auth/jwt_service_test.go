package auth

import (
	"testing"
	"time"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(accessExpiry string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test_secret_key_very_long_for_testing"
	cfg.JWT.AccessExpiry = accessExpiry
	cfg.JWT.RefreshExpiry = "7d"

	return cfg
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("15m"))
	require.NoError(t, err)

	user := &entity.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Role:  entity.RoleAdmin,
	}

	token, err := svc.GenerateAccessToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	assert.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RequiresSecret(t *testing.T) {
	cfg := newTestConfig("15m")
	cfg.JWT.Secret = ""

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("15m"))
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken("clearly-not-a-jwt-token")
	assert.Nil(t, claims)
	assert.Equal(t, domainerrors.ErrAccessTokenInvalid, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("1s"))
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", Role: entity.RoleUser}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	claims, err := svc.ValidateAccessToken(token)
	assert.Nil(t, claims)
	assert.Equal(t, domainerrors.ErrAccessTokenExpired, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("15m"))
	require.NoError(t, err)

	other := newTestConfig("15m")
	other.JWT.Secret = "a_completely_different_secret_key"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", Role: entity.RoleUser}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := otherSvc.ValidateAccessToken(token)
	assert.Nil(t, claims)
	assert.Equal(t, domainerrors.ErrAccessTokenInvalid, err)
}

func TestJWTService_NewRefreshToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("15m"))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range 10 {
		token, err := svc.NewRefreshToken()
		require.NoError(t, err)
		assert.Len(t, token, refreshTokenBytes*2)
		assert.False(t, seen[token], "refresh tokens must not repeat")
		seen[token] = true
	}

	assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenDuration())
}

func TestJWTService_ResetToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("15m"))
	require.NoError(t, err)

	plaintext, hash, err := svc.NewResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, plaintext)
	assert.NotEqual(t, plaintext, hash)

	// The stored hash must be recomputable from the plaintext alone.
	assert.Equal(t, hash, svc.HashResetToken(plaintext))

	_, otherHash, err := svc.NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, hash, otherHash)
}
