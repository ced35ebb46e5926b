package impl

import (
	"context"
	"testing"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categoryFixture struct {
	service  usecase.CategoryUsecase
	userRepo *memUserRepo
	taskRepo *memTaskRepo
}

func newCategoryFixture() *categoryFixture {
	userRepo := newMemUserRepo()
	categoryRepo := newMemCategoryRepo()
	taskRepo := newMemTaskRepo()
	taskRepo.categoryRepo = categoryRepo

	svc := NewCategoryService(CategoryServiceParams{
		CategoryRepo: categoryRepo,
		TaskRepo:     taskRepo,
		ActivityRepo: newMemActivityRepo(),
		Logger:       testLogger(),
	})

	return &categoryFixture{service: svc, userRepo: userRepo, taskRepo: taskRepo}
}

func (f *categoryFixture) addUser(t *testing.T, username string) usecase.Actor {
	t.Helper()

	user := &entity.User{Username: username, Email: username + "@example.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, f.userRepo.Create(context.Background(), user))

	return usecase.Actor{ID: user.ID, Role: entity.RoleUser}
}

func TestCreateCategoryDefaultsColor(t *testing.T) {
	f := newCategoryFixture()
	actor := f.addUser(t, "alice")

	category, err := f.service.Create(context.Background(), actor, usecase.CreateCategoryInput{Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, defaultCategoryColor, category.Color)
	assert.True(t, category.IsActive)
	assert.Equal(t, actor.ID, category.UserID)
}

func TestCreateCategoryNameUniquePerUser(t *testing.T) {
	f := newCategoryFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: "Work"})
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: "Work"})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNameTaken)

	// The same name is fine for a different owner.
	_, err = f.service.Create(context.Background(), bob, usecase.CreateCategoryInput{Name: "Work"})
	assert.NoError(t, err)
}

func TestGetCategoryCrossUserReadsAsNotFound(t *testing.T) {
	f := newCategoryFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	category, err := f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: "Private"})
	require.NoError(t, err)

	_, err = f.service.Get(context.Background(), bob, category.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}

func TestDeleteCategoryRefusedWhileTasksReferenceIt(t *testing.T) {
	f := newCategoryFixture()
	alice := f.addUser(t, "alice")

	category, err := f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: "Busy"})
	require.NoError(t, err)

	task := &entity.Task{
		Title:       "Blocker",
		Status:      entity.TaskStatusNotStarted,
		Priority:    entity.TaskPriorityMedium,
		CreatedByID: alice.ID,
		CategoryID:  &category.ID,
	}
	require.NoError(t, f.taskRepo.Create(context.Background(), task))

	err = f.service.Delete(context.Background(), alice, category.ID, usecase.RequestMeta{})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryHasTasks)

	require.NoError(t, f.taskRepo.Delete(context.Background(), task.ID))
	assert.NoError(t, f.service.Delete(context.Background(), alice, category.ID, usecase.RequestMeta{}))
}

func TestListCategoriesBreaksTaskCountsDownByStatus(t *testing.T) {
	f := newCategoryFixture()
	alice := f.addUser(t, "alice")

	category, err := f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: "Counted"})
	require.NoError(t, err)

	for _, status := range []entity.TaskStatus{
		entity.TaskStatusNotStarted,
		entity.TaskStatusNotStarted,
		entity.TaskStatusInProgress,
		entity.TaskStatusCompleted,
	} {
		task := &entity.Task{
			Title:       "T",
			Status:      status,
			Priority:    entity.TaskPriorityMedium,
			CreatedByID: alice.ID,
			CategoryID:  &category.ID,
		}
		require.NoError(t, f.taskRepo.Create(context.Background(), task))
	}

	listed, err := f.service.List(context.Background(), alice, usecase.ListCategoriesInput{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(4), listed[0].TaskCounts.Total)
	assert.Equal(t, int64(2), listed[0].TaskCounts.NotStarted)
	assert.Equal(t, int64(1), listed[0].TaskCounts.InProgress)
	assert.Equal(t, int64(1), listed[0].TaskCounts.Completed)
}

func TestListCategoriesSearchAndSort(t *testing.T) {
	f := newCategoryFixture()
	alice := f.addUser(t, "alice")

	for _, name := range []string{"Work", "Workout", "Errands"} {
		_, err := f.service.Create(context.Background(), alice, usecase.CreateCategoryInput{Name: name})
		require.NoError(t, err)
	}

	listed, err := f.service.List(context.Background(), alice, usecase.ListCategoriesInput{Search: "work"})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Work", listed[0].Category.Name)
	assert.Equal(t, "Workout", listed[1].Category.Name)

	listed, err = f.service.List(context.Background(), alice, usecase.ListCategoriesInput{SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Workout", listed[0].Category.Name)
	assert.Equal(t, "Errands", listed[2].Category.Name)
}
