package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationListParams pages a notification listing. IsRead left nil lists
// read and unread alike.
type NotificationListParams struct {
	IsRead *bool
	Page   int
	Limit  int
}

// NotificationRepository defines the standard operations for notification persistence.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *entity.Notification) error

	// CreateBatch persists multiple notifications in one statement.
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error

	// FindByID retrieves a notification by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)

	// ListByUser retrieves the user's notifications newest first, plus the
	// total match count and the user's overall unread count.
	ListByUser(ctx context.Context, userID uuid.UUID, params NotificationListParams) ([]*entity.Notification, int64, int64, error)

	// SetRead sets a single notification's read flag either way.
	SetRead(ctx context.Context, id uuid.UUID, isRead bool) error

	// MarkAllRead flags all of the user's unread notifications as read.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// Delete removes a notification permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
