package impl

import (
	"context"
	"log/slog"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
	auditor      *auditor
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	StatsRepo    repository.StatsRepository
	ActivityRepo repository.ActivityRepository
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		statsRepo:    params.StatsRepo,
		activityRepo: params.ActivityRepo,
		auditor:      newAuditor(params.ActivityRepo, params.Logger),
		logger:       params.Logger,
	}
}

// GetProfile retrieves the actor's own profile plus their assigned-task tallies.
func (srv *userService) GetProfile(ctx context.Context, actor usecase.Actor) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	counts, err := srv.statsRepo.CountAssignedByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	stats := usecase.ProfileTaskStats{}
	for _, c := range counts {
		stats.Total += c.Count
		switch entity.TaskStatus(c.Status) {
		case entity.TaskStatusNotStarted:
			stats.NotStarted = c.Count
		case entity.TaskStatusInProgress:
			stats.InProgress = c.Count
		case entity.TaskStatusCompleted:
			stats.Completed = c.Count
		}
	}

	return &usecase.ProfileOutput{User: user, TaskStats: stats}, nil
}

// UpdateProfile applies a self-service profile update. Email uniqueness is
// checked before username uniqueness, matching registration.
func (srv *userService) UpdateProfile(ctx context.Context, actor usecase.Actor, input usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	if err := srv.applyIdentityChanges(ctx, user, input.Email, input.Username); err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, actor.ID, "update_profile", nil, input.Meta, "user", &user.ID)

	return user, nil
}

// GetActivity retrieves a page of the actor's own audit records.
func (srv *userService) GetActivity(ctx context.Context, actor usecase.Actor, page, limit int) (*usecase.ActivityPage, error) {
	page, limit = normalizePage(page, limit)

	activities, total, err := srv.activityRepo.ListByUser(ctx, actor.ID, repository.ActivityListParams{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return &usecase.ActivityPage{
		Activities: activities,
		Pagination: usecase.NewPagination(total, page, limit),
	}, nil
}

// List retrieves a page of all users. Admin only.
func (srv *userService) List(ctx context.Context, actor usecase.Actor, input usecase.ListUsersInput) (*usecase.UserPage, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)

	users, total, err := srv.userRepo.List(ctx, repository.UserListParams{
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &usecase.UserPage{
		Users:      users,
		Pagination: usecase.NewPagination(total, page, limit),
	}, nil
}

// Get retrieves any user by ID. Admin only.
func (srv *userService) Get(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// AdminUpdate applies an update to any user, including role and active flag.
// Admin only.
func (srv *userService) AdminUpdate(ctx context.Context, actor usecase.Actor, id uuid.UUID, input usecase.AdminUpdateUserInput) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	if err := srv.applyIdentityChanges(ctx, user, input.Email, input.Username); err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid role")
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, actor.ID, "admin_update_user", map[string]any{"targetId": user.ID.String()}, input.Meta, "user", &user.ID)

	return user, nil
}

// Delete removes a user. Admin only, and admins cannot delete themselves.
func (srv *userService) Delete(ctx context.Context, actor usecase.Actor, id uuid.UUID, meta usecase.RequestMeta) error {
	if !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}
	if id == actor.ID {
		return domainerrors.ErrCannotDeleteSelf
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return err
	}

	srv.auditor.record(ctx, actor.ID, "admin_delete_user", map[string]any{"targetId": id.String()}, meta, "user", &id)

	return nil
}

// applyIdentityChanges updates email and username after uniqueness checks,
// email first.
func (srv *userService) applyIdentityChanges(ctx context.Context, user *entity.User, email, username *string) error {
	if email != nil && *email != user.Email {
		existing, err := srv.userRepo.FindByEmail(ctx, *email)
		if err == nil && existing.ID != user.ID {
			return domainerrors.ErrEmailAlreadyInUse
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email uniqueness")
		}
		user.Email = *email
	}

	if username != nil && *username != user.Username {
		existing, err := srv.userRepo.FindByUsername(ctx, *username)
		if err == nil && existing.ID != user.ID {
			return domainerrors.ErrUsernameAlreadyTaken
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check username uniqueness")
		}
		user.Username = *username
	}

	return nil
}
