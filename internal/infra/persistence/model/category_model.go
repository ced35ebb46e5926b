package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryModel mirrors the 'categories' table. Category names are unique
// per owner, not globally.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_user_name"`
	Description string    `gorm:"type:varchar(200)"`
	Color       string    `gorm:"type:varchar(7);not null;default:'#3498db'"`
	Icon        string    `gorm:"type:varchar(50)"`
	IsActive    bool      `gorm:"not null;default:true"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tasks []*TaskModel `gorm:"foreignKey:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
