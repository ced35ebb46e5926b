package handler

import (
	"net/http"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CategoryHandler holds dependencies for category endpoints.
type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler, injected by Fx.
func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"isActive"`
}

// Create handles category creation.
func (h *CategoryHandler) Create(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Meta:        requestMeta(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCategoryView(category), "Category created successfully")
}

// List handles listing the actor's categories with their per-status task
// counts.
func (h *CategoryHandler) List(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	categories, err := h.uc.List(c.Request().Context(), actor, usecase.ListCategoriesInput{
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*CategoryView, 0, len(categories))
	for _, cat := range categories {
		view := toCategoryView(cat.Category)
		view.TaskCounts = &CategoryCountsView{
			Total:      cat.TaskCounts.Total,
			Completed:  cat.TaskCounts.Completed,
			InProgress: cat.TaskCounts.InProgress,
			NotStarted: cat.TaskCounts.NotStarted,
		}
		views = append(views, view)
	}

	return response.Success(c, http.StatusOK, views, "")
}

// Get handles fetching a single category.
func (h *CategoryHandler) Get(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	category, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryView(category), "")
}

// Update handles a partial category update.
func (h *CategoryHandler) Update(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.uc.Update(c.Request().Context(), actor, id, usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
		Meta:        requestMeta(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryView(category), "Category updated successfully")
}

// Delete handles category deletion. Categories with tasks cannot be removed.
func (h *CategoryHandler) Delete(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Category deleted successfully")
}
