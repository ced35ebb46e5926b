package repository

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ActivityListParams pages an activity listing.
type ActivityListParams struct {
	Page  int
	Limit int
}

// ActivityRepository defines the standard operations for activity log persistence.
type ActivityRepository interface {
	// Create persists a new activity record.
	Create(ctx context.Context, activity *entity.Activity) error

	// ListByUser retrieves the user's activity records newest first, plus
	// the total match count.
	ListByUser(ctx context.Context, userID uuid.UUID, params ActivityListParams) ([]*entity.Activity, int64, error)
}
