package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput defines a partial self-service profile update.
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string

	Meta RequestMeta
}

// AdminUpdateUserInput extends profile updates with the admin-only fields.
type AdminUpdateUserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string
	Role      *entity.Role
	IsActive  *bool

	Meta RequestMeta
}

// ListUsersInput pages an admin user listing.
type ListUsersInput struct {
	Search string
	Page   int
	Limit  int
}

// ProfileOutput is a user profile plus their assigned-task tallies.
type ProfileOutput struct {
	User      *entity.User
	TaskStats ProfileTaskStats
}

// ProfileTaskStats tallies the tasks assigned to a user by status.
type ProfileTaskStats struct {
	Total      int64
	NotStarted int64
	InProgress int64
	Completed  int64
}

// UserPage is one page of users.
type UserPage struct {
	Users      []*entity.User
	Pagination Pagination
}

// ActivityPage is one page of audit records.
type ActivityPage struct {
	Activities []*entity.Activity
	Pagination Pagination
}

// UserUsecase defines the profile operations plus the admin user management
// surface.
type UserUsecase interface {
	GetProfile(ctx context.Context, actor Actor) (*ProfileOutput, error)
	UpdateProfile(ctx context.Context, actor Actor, input UpdateProfileInput) (*entity.User, error)
	GetActivity(ctx context.Context, actor Actor, page, limit int) (*ActivityPage, error)

	// Admin-only operations. The delivery layer enforces the role gate; the
	// service enforces it again.
	List(ctx context.Context, actor Actor, input ListUsersInput) (*UserPage, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.User, error)
	AdminUpdate(ctx context.Context, actor Actor, id uuid.UUID, input AdminUpdateUserInput) (*entity.User, error)

	// Delete removes a user. Admins cannot delete their own account.
	Delete(ctx context.Context, actor Actor, id uuid.UUID, meta RequestMeta) error
}
