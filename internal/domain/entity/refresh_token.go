package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a long-lived, opaque, persisted credential used solely to
// mint new access tokens. Revocation is a soft state: a revoked token never
// transitions back to active, and tokens are not physically deleted in normal
// operation so the audit trail survives.
type RefreshToken struct {
	ID        uuid.UUID
	Token     string // Opaque high-entropy random string, globally unique.
	UserID    uuid.UUID
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the token can still mint access tokens at the given
// instant. Expiry is terminal regardless of the revoked flag.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
