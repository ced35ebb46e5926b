// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// RequestMeta carries the client details recorded in the audit log.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	AvatarURL string

	Meta RequestMeta
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string

	Meta RequestMeta
}

// LogoutInput identifies the session being ended. RefreshToken may be empty;
// logout always succeeds.
type LogoutInput struct {
	Actor        *Actor // nil when the caller presented no valid access token
	RefreshToken string

	Meta RequestMeta
}

// ResetPasswordInput carries the plaintext reset token and the replacement password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string

	Meta RequestMeta
}

// ChangePasswordInput carries a password change for an authenticated user.
// RefreshToken, when present, names the one session to keep alive.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
	RefreshToken    string

	Meta RequestMeta
}

// --- Output DTOs ---

// AuthOutput returns the authenticated user and a fresh token pair.
type AuthOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// RefreshOutput returns the rotated token pair.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// ForgotPasswordOutput carries the plaintext reset token. Real email delivery
// is out of scope, so the token is surfaced to the caller as the delivery seam.
type ForgotPasswordOutput struct {
	ResetToken string
}

// AuthUsecase coordinates the session lifecycle: registration, login,
// refresh-token rotation, logout, and the password reset and change flows.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Refresh rotates the presented refresh token: the old token is revoked
	// and a new pair is issued. A used token can never be replayed.
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout revokes the presented refresh token. A missing or unknown token
	// is not an error.
	Logout(ctx context.Context, input LogoutInput) error

	// ForgotPassword responds identically whether or not the email exists.
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordOutput, error)

	// ResetPassword consumes a reset token exactly once and revokes every
	// refresh token the user holds.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	// ChangePassword replaces the password and revokes every refresh token
	// except the one supplied in the input, if any.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
}
