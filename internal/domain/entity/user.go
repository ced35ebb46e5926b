// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root of the system. Refresh tokens and the
// password-reset fields are owned by the user and cannot outlive it.
type User struct {
	ID           uuid.UUID
	Username     string // Globally unique, case-sensitive as stored.
	Email        string // Globally unique, case-sensitive as stored.
	PasswordHash string // bcrypt hash; the plaintext is never persisted.
	FirstName    string
	LastName     string
	AvatarURL    string
	Role         Role
	IsActive     bool

	// ResetPasswordToken holds the sha256 hex of the outstanding reset token,
	// empty when no reset is pending. The plaintext is never persisted.
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
