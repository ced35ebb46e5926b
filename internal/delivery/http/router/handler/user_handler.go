package handler

import (
	"net/http"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for profile and user administration endpoints.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type updateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

type adminUpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
	Role      *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive  *bool   `json:"isActive"`
}

type profileResponse struct {
	User      *UserView        `json:"user"`
	TaskStats profileTaskStats `json:"taskStats"`
}

type profileTaskStats struct {
	Total      int64 `json:"total"`
	NotStarted int64 `json:"notStarted"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

type userPageResponse struct {
	Users      []*UserView    `json:"users"`
	Pagination PaginationView `json:"pagination"`
}

type activityPageResponse struct {
	Activities []*ActivityView `json:"activities"`
	Pagination PaginationView  `json:"pagination"`
}

// GetProfile handles fetching the actor's own profile with task tallies.
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profileResponse{
		User: toUserView(profile.User),
		TaskStats: profileTaskStats{
			Total:      profile.TaskStats.Total,
			NotStarted: profile.TaskStats.NotStarted,
			InProgress: profile.TaskStats.InProgress,
			Completed:  profile.TaskStats.Completed,
		},
	}, "")
}

// UpdateProfile handles a partial self-service profile update.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), actor, usecase.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		Meta:      requestMeta(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "Profile updated successfully")
}

// GetActivity handles the actor's paginated audit log.
func (h *UserHandler) GetActivity(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	page, err := h.uc.GetActivity(c.Request().Context(), actor, queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*ActivityView, 0, len(page.Activities))
	for _, a := range page.Activities {
		views = append(views, toActivityView(a))
	}

	return response.Success(c, http.StatusOK, activityPageResponse{
		Activities: views,
		Pagination: toPaginationView(page.Pagination),
	}, "")
}

// List handles the admin user listing.
func (h *UserHandler) List(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	page, err := h.uc.List(c.Request().Context(), actor, usecase.ListUsersInput{
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, userPageResponse{
		Users:      toUserViews(page.Users),
		Pagination: toPaginationView(page.Pagination),
	}, "")
}

// Get handles fetching a single user by ID, admin-only.
func (h *UserHandler) Get(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "")
}

// AdminUpdate handles an admin update of any user, including role and
// active status.
func (h *UserHandler) AdminUpdate(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input := usecase.AdminUpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		IsActive:  req.IsActive,
		Meta:      requestMeta(c),
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.uc.AdminUpdate(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "User updated successfully")
}

// Delete handles admin user deletion. Self-deletion is rejected.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id, requestMeta(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted successfully")
}
