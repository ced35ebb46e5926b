package postgres

import (
	"context"
	"encoding/json"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// activityRepository implements the domain's ActivityRepository interface.
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository is the constructor for activityRepository.
func NewActivityRepository(db *gorm.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends a new activity record.
func (repo *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	activityM, err := fromActivityDomain(activity)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(activityM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create activity record")
	}

	activity.ID = activityM.ID
	activity.CreatedAt = activityM.CreatedAt

	return nil
}

// ListByUser retrieves a page of the user's activity newest first, plus the
// total match count.
func (repo *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, params repository.ActivityListParams) ([]*entity.Activity, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ActivityModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	var activityModels []*model.ActivityModel
	err := query.
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&activityModels).Error
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	activities := make([]*entity.Activity, 0, len(activityModels))
	for _, activityM := range activityModels {
		activity, err := toActivityDomain(activityM)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, activity)
	}

	return activities, total, nil
}

// toActivityDomain converts a persistence model to a domain entity.
func toActivityDomain(data *model.ActivityModel) (*entity.Activity, error) {
	var details map[string]any
	if len(data.Details) > 0 {
		if err := json.Unmarshal(data.Details, &details); err != nil {
			return nil, errors.Wrap(err, "unmarshal activity details")
		}
	}

	return &entity.Activity{
		ID:           data.ID,
		UserID:       data.UserID,
		Action:       data.Action,
		Details:      details,
		IPAddress:    data.IPAddress,
		UserAgent:    data.UserAgent,
		ResourceType: data.ResourceType,
		ResourceID:   data.ResourceID,
		CreatedAt:    data.CreatedAt,
	}, nil
}

// fromActivityDomain converts a domain entity to a persistence model.
func fromActivityDomain(data *entity.Activity) (*model.ActivityModel, error) {
	var details datatypes.JSON
	if data.Details != nil {
		raw, err := json.Marshal(data.Details)
		if err != nil {
			return nil, errors.Wrap(err, "marshal activity details")
		}
		details = datatypes.JSON(raw)
	}

	return &model.ActivityModel{
		ID:           data.ID,
		UserID:       data.UserID,
		Action:       data.Action,
		Details:      details,
		IPAddress:    data.IPAddress,
		UserAgent:    data.UserAgent,
		ResourceType: data.ResourceType,
		ResourceID:   data.ResourceID,
		CreatedAt:    data.CreatedAt,
	}, nil
}
