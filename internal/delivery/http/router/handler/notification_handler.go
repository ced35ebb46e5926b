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

// NotificationHandler holds dependencies for notification endpoints.
type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

type notificationPageResponse struct {
	Notifications []*NotificationView `json:"notifications"`
	UnreadCount   int64               `json:"unreadCount"`
	Pagination    PaginationView      `json:"pagination"`
}

// List handles the actor's notification listing.
func (h *NotificationHandler) List(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	page, err := h.uc.List(c.Request().Context(), actor, usecase.ListNotificationsInput{
		IsRead: queryBoolPtr(c, "isRead"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*NotificationView, 0, len(page.Notifications))
	for _, n := range page.Notifications {
		views = append(views, toNotificationView(n))
	}

	return response.Success(c, http.StatusOK, notificationPageResponse{
		Notifications: views,
		UnreadCount:   page.UnreadCount,
		Pagination:    toPaginationView(page.Pagination),
	}, "")
}

type updateNotificationRequest struct {
	IsRead *bool `json:"isRead"`
}

// Update handles setting a notification's read flag. The body may also mark
// a notification unread again; an absent flag defaults to read.
func (h *NotificationHandler) Update(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req updateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid notification input")
	}
	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}

	notification, err := h.uc.SetRead(c.Request().Context(), actor, id, isRead)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toNotificationView(notification), "Notification updated successfully")
}

// MarkAllRead handles marking every notification of the actor as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	if err := h.uc.MarkAllRead(c.Request().Context(), actor); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "All notifications marked as read")
}

// Delete handles notification deletion.
func (h *NotificationHandler) Delete(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Notification deleted successfully")
}
