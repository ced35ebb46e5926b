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

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for notificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		logger:           params.Logger,
	}
}

// List retrieves a page of the actor's notifications.
func (srv *notificationService) List(ctx context.Context, actor usecase.Actor, input usecase.ListNotificationsInput) (*usecase.NotificationPage, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	notifications, total, unread, err := srv.notificationRepo.ListByUser(ctx, actor.ID, repository.NotificationListParams{
		IsRead: input.IsRead,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &usecase.NotificationPage{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    usecase.NewPagination(total, page, limit),
	}, nil
}

// SetRead flips the read flag on one of the actor's notifications.
func (srv *notificationService) SetRead(ctx context.Context, actor usecase.Actor, id uuid.UUID, isRead bool) (*entity.Notification, error) {
	notification, err := srv.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := srv.notificationRepo.SetRead(ctx, notification.ID, isRead); err != nil {
		return nil, err
	}
	notification.IsRead = isRead

	return notification, nil
}

// MarkAllRead flags all of the actor's notifications as read.
func (srv *notificationService) MarkAllRead(ctx context.Context, actor usecase.Actor) error {
	return srv.notificationRepo.MarkAllRead(ctx, actor.ID)
}

// Delete removes one of the actor's notifications.
func (srv *notificationService) Delete(ctx context.Context, actor usecase.Actor, id uuid.UUID) error {
	notification, err := srv.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	return srv.notificationRepo.Delete(ctx, notification.ID)
}

// owned fetches a notification and confirms the actor owns it. Another
// user's notification reads as not found.
func (srv *notificationService) owned(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Notification, error) {
	notification, err := srv.notificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, domainerrors.ErrNotificationNotFound
		}

		return nil, err
	}

	if notification.UserID != actor.ID {
		return nil, domainerrors.ErrNotificationNotFound
	}

	return notification, nil
}
