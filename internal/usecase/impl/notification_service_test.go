package impl

import (
	"context"
	"testing"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	service          usecase.NotificationUsecase
	notificationRepo *memNotificationRepo
}

func newNotificationFixture() *notificationFixture {
	notificationRepo := newMemNotificationRepo()

	svc := NewNotificationService(NotificationServiceParams{
		NotificationRepo: notificationRepo,
		Logger:           testLogger(),
	})

	return &notificationFixture{service: svc, notificationRepo: notificationRepo}
}

func (f *notificationFixture) seed(t *testing.T, userID uuid.UUID, isRead bool) *entity.Notification {
	t.Helper()

	notification := &entity.Notification{
		Type:    entity.NotificationTaskAssigned,
		Message: "seeded",
		UserID:  userID,
		IsRead:  isRead,
	}
	require.NoError(t, f.notificationRepo.Create(context.Background(), notification))

	return notification
}

func TestListNotificationsIsReadFilterIsTriState(t *testing.T) {
	f := newNotificationFixture()
	actor := usecase.Actor{ID: uuid.New(), Role: entity.RoleUser}

	f.seed(t, actor.ID, false)
	f.seed(t, actor.ID, false)
	f.seed(t, actor.ID, true)

	page, err := f.service.List(context.Background(), actor, usecase.ListNotificationsInput{})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 3)
	assert.Equal(t, int64(2), page.UnreadCount)

	unread := false
	page, err = f.service.List(context.Background(), actor, usecase.ListNotificationsInput{IsRead: &unread})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)

	read := true
	page, err = f.service.List(context.Background(), actor, usecase.ListNotificationsInput{IsRead: &read})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.True(t, page.Notifications[0].IsRead)
	// The unread count ignores the filter.
	assert.Equal(t, int64(2), page.UnreadCount)
}

func TestSetReadFlipsBothWays(t *testing.T) {
	f := newNotificationFixture()
	actor := usecase.Actor{ID: uuid.New(), Role: entity.RoleUser}
	seeded := f.seed(t, actor.ID, false)

	notification, err := f.service.SetRead(context.Background(), actor, seeded.ID, true)
	require.NoError(t, err)
	assert.True(t, notification.IsRead)

	notification, err = f.service.SetRead(context.Background(), actor, seeded.ID, false)
	require.NoError(t, err)
	assert.False(t, notification.IsRead)

	stored, err := f.notificationRepo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)
}

func TestSetReadCrossUserReadsAsNotFound(t *testing.T) {
	f := newNotificationFixture()
	owner := usecase.Actor{ID: uuid.New(), Role: entity.RoleUser}
	other := usecase.Actor{ID: uuid.New(), Role: entity.RoleUser}
	seeded := f.seed(t, owner.ID, false)

	_, err := f.service.SetRead(context.Background(), other, seeded.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestMarkAllReadClearsUnreadCount(t *testing.T) {
	f := newNotificationFixture()
	actor := usecase.Actor{ID: uuid.New(), Role: entity.RoleUser}
	f.seed(t, actor.ID, false)
	f.seed(t, actor.ID, false)

	require.NoError(t, f.service.MarkAllRead(context.Background(), actor))

	page, err := f.service.List(context.Background(), actor, usecase.ListNotificationsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.UnreadCount)
}
