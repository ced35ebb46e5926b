package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Username             string    `gorm:"type:varchar(30);unique;not null"`
	Email                string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash         string    `gorm:"type:varchar(255);not null"`
	FirstName            string    `gorm:"type:varchar(100)"`
	LastName             string    `gorm:"type:varchar(100)"`
	AvatarURL            string    `gorm:"type:text"`
	Role                 string    `gorm:"type:varchar(20);not null;default:'user'"`
	IsActive             bool      `gorm:"not null;default:true"`
	ResetPasswordToken   string    `gorm:"type:varchar(64);index"`
	ResetPasswordExpires *time.Time
	LastLogin            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Rows owned by the user go with it on delete. Tasks the user merely
	// is assigned to survive with the assignee cleared, declared task-side.
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Notifications []NotificationModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Activities    []ActivityModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table. Tokens are opaque
// random strings stored verbatim and revoked in place, never deleted.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Token     string    `gorm:"type:varchar(160);unique;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	IsRevoked bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
