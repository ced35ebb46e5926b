package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskModel mirrors the 'tasks' table. Attachments are stored as a JSON
// array of URLs.
type TaskModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title         string         `gorm:"type:varchar(200);not null"`
	Description   string         `gorm:"type:text"`
	Status        string         `gorm:"type:varchar(20);not null;default:'not_started';index"`
	Priority      string         `gorm:"type:varchar(10);not null;default:'medium';index"`
	DueDate       *time.Time     `gorm:"index"`
	CompletedAt   *time.Time
	EstimatedTime *int           `gorm:"type:integer"`
	Recurrence    string         `gorm:"type:varchar(10);not null;default:'none'"`
	Attachments   datatypes.JSON `gorm:"type:jsonb"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index"`
	AssignedToID  *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedByID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	ParentTaskID  *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Creator       *UserModel           `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Assignee      *UserModel           `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	Category      *CategoryModel       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	ParentTask    *TaskModel           `gorm:"foreignKey:ParentTaskID"`
	Subtasks      []*TaskModel         `gorm:"foreignKey:ParentTaskID;constraint:OnDelete:SET NULL"`
	Comments      []*CommentModel      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Notifications []*NotificationModel `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
