package service

import (
	"time"

	"taskhub/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims embedded in access tokens.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for minting and validating the tokens
// used by the session lifecycle: signed access tokens, opaque refresh
// tokens, and hashed password reset tokens.
type TokenService interface {
	// GenerateAccessToken creates a signed access token for the user.
	GenerateAccessToken(user *entity.User) (string, error)

	// ValidateAccessToken checks a token string and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// NewRefreshToken generates a new opaque refresh token string.
	NewRefreshToken() (string, error)

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration

	// NewResetToken generates a password reset token, returning the
	// plaintext sent to the user and the hash stored at rest.
	NewResetToken() (plaintext string, hash string, err error)

	// HashResetToken hashes a plaintext reset token for lookup.
	HashResetToken(plaintext string) string
}
