package impl

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	service          usecase.CommentUsecase
	userRepo         *memUserRepo
	taskRepo         *memTaskRepo
	commentRepo      *memCommentRepo
	notificationRepo *memNotificationRepo
}

func newCommentFixture() *commentFixture {
	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()
	commentRepo := newMemCommentRepo()
	notificationRepo := newMemNotificationRepo()

	svc := NewCommentService(CommentServiceParams{
		CommentRepo:      commentRepo,
		TaskRepo:         taskRepo,
		NotificationRepo: notificationRepo,
		ActivityRepo:     newMemActivityRepo(),
		Logger:           testLogger(),
	})

	return &commentFixture{
		service:          svc,
		userRepo:         userRepo,
		taskRepo:         taskRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
	}
}

func (f *commentFixture) addUser(t *testing.T, username string, role entity.Role) usecase.Actor {
	t.Helper()

	user := &entity.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))

	return usecase.Actor{ID: user.ID, Role: role}
}

func (f *commentFixture) addTask(t *testing.T, creator usecase.Actor, assignee *uuid.UUID) *entity.Task {
	t.Helper()

	task := &entity.Task{
		Title:        "Ship release notes",
		Status:       entity.TaskStatusNotStarted,
		Priority:     entity.TaskPriorityMedium,
		Recurrence:   entity.TaskRecurrenceNone,
		CreatedByID:  creator.ID,
		AssignedToID: assignee,
	}
	require.NoError(t, f.taskRepo.Create(context.Background(), task))

	return task
}

func TestCreateCommentOnUnknownTask(t *testing.T) {
	f := newCommentFixture()
	actor := f.addUser(t, "alice", entity.RoleUser)

	_, err := f.service.Create(context.Background(), actor, usecase.CreateCommentInput{
		Content: "where is this task",
		TaskID:  uuid.New(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}

func TestCreateCommentReplyMustShareTask(t *testing.T) {
	f := newCommentFixture()
	alice := f.addUser(t, "alice", entity.RoleUser)
	taskA := f.addTask(t, alice, nil)
	taskB := f.addTask(t, alice, nil)

	parent, err := f.service.Create(context.Background(), alice, usecase.CreateCommentInput{
		Content: "first",
		TaskID:  taskA.ID,
	})
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), alice, usecase.CreateCommentInput{
		Content:         "reply on the wrong task",
		TaskID:          taskB.ID,
		ParentCommentID: &parent.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	missing := uuid.New()
	_, err = f.service.Create(context.Background(), alice, usecase.CreateCommentInput{
		Content:         "reply to nothing",
		TaskID:          taskA.ID,
		ParentCommentID: &missing,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCommentNotFound)
}

func TestCreateCommentNotifiesParticipantsOnce(t *testing.T) {
	f := newCommentFixture()
	creator := f.addUser(t, "alice", entity.RoleUser)
	assignee := f.addUser(t, "bob", entity.RoleUser)
	replier := f.addUser(t, "carol", entity.RoleUser)
	task := f.addTask(t, creator, &assignee.ID)

	parent, err := f.service.Create(context.Background(), assignee, usecase.CreateCommentInput{
		Content: "looking into it",
		TaskID:  task.ID,
	})
	require.NoError(t, err)

	// The assignee commented on their own task, so only the creator hears
	// about it.
	assert.Eventually(t, func() bool {
		return len(f.notificationRepo.forUser(creator.ID)) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, f.notificationRepo.forUser(assignee.ID))

	_, err = f.service.Create(context.Background(), replier, usecase.CreateCommentInput{
		Content:         "any update?",
		TaskID:          task.ID,
		ParentCommentID: &parent.ID,
	})
	require.NoError(t, err)

	// Creator, assignee and parent author overlap; bob must be notified
	// exactly once even though he is both assignee and parent author.
	assert.Eventually(t, func() bool {
		return len(f.notificationRepo.forUser(assignee.ID)) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return len(f.notificationRepo.forUser(creator.ID)) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, f.notificationRepo.forUser(replier.ID))

	notification := f.notificationRepo.forUser(assignee.ID)[0]
	assert.Equal(t, entity.NotificationCommentAdded, notification.Type)
	require.NotNil(t, notification.TaskID)
	assert.Equal(t, task.ID, *notification.TaskID)
}

func TestCommenterNeverNotifiesThemselves(t *testing.T) {
	f := newCommentFixture()
	creator := f.addUser(t, "alice", entity.RoleUser)
	task := f.addTask(t, creator, &creator.ID)

	_, err := f.service.Create(context.Background(), creator, usecase.CreateCommentInput{
		Content: "note to self",
		TaskID:  task.ID,
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.notificationRepo.forUser(creator.ID))
}

func TestUpdateCommentOnlyAuthorOrAdmin(t *testing.T) {
	f := newCommentFixture()
	author := f.addUser(t, "alice", entity.RoleUser)
	other := f.addUser(t, "bob", entity.RoleUser)
	admin := f.addUser(t, "root", entity.RoleAdmin)
	task := f.addTask(t, author, nil)

	comment, err := f.service.Create(context.Background(), author, usecase.CreateCommentInput{
		Content: "draft",
		TaskID:  task.ID,
	})
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), other, comment.ID, "hijacked")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	updated, err := f.service.Update(context.Background(), admin, comment.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	f := newCommentFixture()
	author := f.addUser(t, "alice", entity.RoleUser)
	other := f.addUser(t, "bob", entity.RoleUser)
	task := f.addTask(t, author, nil)

	parent, err := f.service.Create(context.Background(), author, usecase.CreateCommentInput{
		Content: "thread start",
		TaskID:  task.ID,
	})
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), other, usecase.CreateCommentInput{
		Content:         "thread reply",
		TaskID:          task.ID,
		ParentCommentID: &parent.ID,
	})
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), other, parent.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, f.service.Delete(context.Background(), author, parent.ID))

	comments, err := f.service.ListByTask(context.Background(), author, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestListCommentsNestsReplies(t *testing.T) {
	f := newCommentFixture()
	author := f.addUser(t, "alice", entity.RoleUser)
	task := f.addTask(t, author, nil)

	parent, err := f.service.Create(context.Background(), author, usecase.CreateCommentInput{
		Content: "top level",
		TaskID:  task.ID,
	})
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), author, usecase.CreateCommentInput{
		Content:         "nested",
		TaskID:          task.ID,
		ParentCommentID: &parent.ID,
	})
	require.NoError(t, err)

	comments, err := f.service.ListByTask(context.Background(), author, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "nested", comments[0].Replies[0].Content)
}
