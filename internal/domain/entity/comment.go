package entity

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a remark left on a task. Replies reference their parent through
// ParentCommentID and always belong to the same task.
type Comment struct {
	ID              uuid.UUID
	Content         string
	TaskID          uuid.UUID
	UserID          uuid.UUID
	ParentCommentID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User    *User
	Replies []*Comment
}
