package model

import (
	"time"

	"github.com/google/uuid"
)

// CommentModel mirrors the 'comments' table. Replies reference their parent
// comment and cascade on delete.
type CommentModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Content         string     `gorm:"type:text;not null"`
	TaskID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User          *UserModel           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Replies       []*CommentModel      `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE"`
	Notifications []*NotificationModel `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "comments"
}
