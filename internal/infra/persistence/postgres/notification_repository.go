package postgres

import (
	"context"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// notificationRepository implements the domain's NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create persists a new notification.
func (repo *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create notification")
	}

	notification.ID = notificationM.ID
	notification.CreatedAt = notificationM.CreatedAt

	return nil
}

// CreateBatch persists multiple notifications in one statement.
func (repo *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	notificationModels := make([]*model.NotificationModel, 0, len(notifications))
	for _, notification := range notifications {
		notificationModels = append(notificationModels, fromNotificationDomain(notification))
	}

	if err := repo.db.WithContext(ctx).Create(&notificationModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create notifications")
	}

	return nil
}

// FindByID retrieves a notification by its unique identifier.
func (repo *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notificationM model.NotificationModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&notificationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotificationNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toNotificationDomain(&notificationM), nil
}

// ListByUser retrieves a page of the user's notifications newest first, plus
// the total match count and the overall unread count.
func (repo *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, params repository.NotificationListParams) ([]*entity.Notification, int64, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.NotificationModel{}).Where("user_id = ?", userID)
	if params.IsRead != nil {
		query = query.Where("is_read = ?", *params.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, errors.WithStack(err)
	}

	var unread int64
	err := repo.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&unread).Error
	if err != nil {
		return nil, 0, 0, errors.WithStack(err)
	}

	var notificationModels []*model.NotificationModel
	err = query.
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&notificationModels).Error
	if err != nil {
		return nil, 0, 0, errors.WithStack(err)
	}

	notifications := make([]*entity.Notification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications, total, unread, nil
}

// SetRead sets a single notification's read flag either way.
func (repo *notificationRepository) SetRead(ctx context.Context, id uuid.UUID, isRead bool) error {
	result := repo.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("id = ?", id).
		Update("is_read", isRead)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update notification")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead flags all of the user's unread notifications as read.
func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark notifications read")
	}

	return nil
}

// Delete removes a notification permanently.
func (repo *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.NotificationModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// toNotificationDomain converts a persistence model to a domain entity.
func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	return &entity.Notification{
		ID:        data.ID,
		Type:      entity.NotificationType(data.Type),
		Message:   data.Message,
		IsRead:    data.IsRead,
		UserID:    data.UserID,
		TaskID:    data.TaskID,
		CommentID: data.CommentID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromNotificationDomain converts a domain entity to a persistence model.
func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	return &model.NotificationModel{
		ID:        data.ID,
		Type:      string(data.Type),
		Message:   data.Message,
		IsRead:    data.IsRead,
		UserID:    data.UserID,
		TaskID:    data.TaskID,
		CommentID: data.CommentID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
