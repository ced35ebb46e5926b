package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ListNotificationsInput pages a notification listing. IsRead left nil lists
// read and unread alike.
type ListNotificationsInput struct {
	IsRead *bool
	Page   int
	Limit  int
}

// NotificationPage is one page of notifications plus the overall unread count.
type NotificationPage struct {
	Notifications []*entity.Notification
	UnreadCount   int64
	Pagination    Pagination
}

// NotificationUsecase defines the notification operations, all scoped to the
// actor's own notifications.
type NotificationUsecase interface {
	List(ctx context.Context, actor Actor, input ListNotificationsInput) (*NotificationPage, error)

	// SetRead flips a notification's read flag either way, so a read
	// notification can be marked unread again.
	SetRead(ctx context.Context, actor Actor, id uuid.UUID, isRead bool) (*entity.Notification, error)
	MarkAllRead(ctx context.Context, actor Actor) error
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}
