package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups a user's tasks. Names are unique per owner, not globally.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Color       string // Hex color, e.g. "#FF8800".
	Icon        string
	IsActive    bool
	UserID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Tasks is populated on demand by the persistence layer.
	Tasks []*Task
}
