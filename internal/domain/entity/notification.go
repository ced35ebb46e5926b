package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates the events that produce a notification.
type NotificationType string

const (
	NotificationTaskAssigned    NotificationType = "task_assigned"
	NotificationTaskUpdated     NotificationType = "task_updated"
	NotificationTaskCompleted   NotificationType = "task_completed"
	NotificationCommentAdded    NotificationType = "comment_added"
	NotificationDueDateReminder NotificationType = "due_date_reminder"
)

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        uuid.UUID
	Type      NotificationType
	Message   string
	IsRead    bool
	UserID    uuid.UUID
	TaskID    *uuid.UUID
	CommentID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
