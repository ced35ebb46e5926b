package handler

import (
	"net/http"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CommentHandler holds dependencies for comment endpoints.
type CommentHandler struct {
	uc usecase.CommentUsecase
}

// NewCommentHandler is the constructor for CommentHandler, injected by Fx.
func NewCommentHandler(uc usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

type createCommentRequest struct {
	Content         string     `json:"content" validate:"required"`
	TaskID          uuid.UUID  `json:"taskId" validate:"required"`
	ParentCommentID *uuid.UUID `json:"parentCommentId"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles leaving a comment on a task.
func (h *CommentHandler) Create(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateCommentInput{
		Content:         req.Content,
		TaskID:          req.TaskID,
		ParentCommentID: req.ParentCommentID,
		Meta:            requestMeta(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCommentView(comment), "Comment created successfully")
}

// ListByTask handles listing a task's comments with nested replies.
func (h *CommentHandler) ListByTask(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	taskID, err := queryUUID(c, "taskId")
	if err != nil {
		return errors.WithStack(err)
	}
	if taskID == nil {
		return domainerrors.ErrValidationFailed.WithDetails("taskId is required")
	}

	comments, err := h.uc.ListByTask(c.Request().Context(), actor, *taskID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCommentViews(comments), "")
}

// Update handles editing a comment's content.
func (h *CommentHandler) Update(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.uc.Update(c.Request().Context(), actor, id, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCommentView(comment), "Comment updated successfully")
}

// Delete handles comment deletion.
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Comment deleted successfully")
}
