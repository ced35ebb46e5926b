package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one append-only audit record of a security- or
// resource-relevant user action. Records are written fire-and-forget and are
// never updated or deleted.
type Activity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Action       string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	ResourceType string
	ResourceID   *uuid.UUID
	CreatedAt    time.Time
}
