// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserListParams narrows and pages an admin user listing.
type UserListParams struct {
	Search string // Matches username, email, first and last name.
	Page   int
	Limit  int
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByResetTokenHash retrieves the user whose stored reset-token hash
	// matches and whose reset expiry is still in the future at the given instant.
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error)

	// List retrieves users matching the params plus the total match count.
	List(ctx context.Context, params UserListParams) ([]*entity.User, int64, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user. Owned refresh tokens cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
