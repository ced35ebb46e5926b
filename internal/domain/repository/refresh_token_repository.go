package repository

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenInvalid is the single failure kind for lookups: callers
	// must not be able to distinguish "not found" from "expired" from
	// "revoked", so all three collapse into this error.
	ErrRefreshTokenInvalid = errors.New("invalid or expired refresh token")

	// ErrRefreshTokenDuplicate is returned when the unique constraint on the
	// token string is violated. Given the token entropy a collision is close
	// to impossible, but the store still enforces uniqueness and callers may
	// retry with a freshly generated token.
	ErrRefreshTokenDuplicate = errors.New("refresh token already exists")
)

// RefreshTokenRepository defines the persistence operations for the refresh
// token store. Tokens are soft-revoked, never deleted in normal operation.
type RefreshTokenRepository interface {
	// Create persists a new active refresh token record.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindActive retrieves a token record only if it exists, is not revoked,
	// and its expiry is strictly in the future. Any other outcome is
	// ErrRefreshTokenInvalid.
	FindActive(ctx context.Context, token string) (*entity.RefreshToken, error)

	// Revoke marks the token revoked. Revoking an already-revoked or
	// nonexistent token is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser marks every non-revoked token owned by the user as
	// revoked. Idempotent.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// RevokeAllForUserExcept behaves like RevokeAllForUser but spares the
	// given token string, keeping that session alive.
	RevokeAllForUserExcept(ctx context.Context, userID uuid.UUID, token string) error
}
