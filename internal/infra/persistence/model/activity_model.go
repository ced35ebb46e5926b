package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityModel mirrors the 'activities' table. Rows are append-only.
type ActivityModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Action       string         `gorm:"type:varchar(50);not null"`
	Details      datatypes.JSON `gorm:"type:jsonb"`
	IPAddress    string         `gorm:"type:varchar(45)"`
	UserAgent    string         `gorm:"type:text"`
	ResourceType string         `gorm:"type:varchar(30)"`
	ResourceID   *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt    time.Time      `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ActivityModel) TableName() string {
	return "activities"
}
