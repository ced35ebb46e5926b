package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	taskRepo     repository.TaskRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	notifier     *notifier
	auditor      *auditor
	logger       *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo         repository.TaskRepository
	UserRepo         repository.UserRepository
	CategoryRepo     repository.CategoryRepository
	NotificationRepo repository.NotificationRepository
	ActivityRepo     repository.ActivityRepository
	Logger           *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo:     params.TaskRepo,
		userRepo:     params.UserRepo,
		categoryRepo: params.CategoryRepo,
		notifier:     newNotifier(params.NotificationRepo, params.Logger),
		auditor:      newAuditor(params.ActivityRepo, params.Logger),
		logger:       params.Logger,
	}
}

// Create validates the task's references and persists it. A new assignee
// other than the creator is notified.
func (srv *taskService) Create(ctx context.Context, actor usecase.Actor, input usecase.CreateTaskInput) (*entity.Task, error) {
	if input.CategoryID != nil {
		if err := srv.checkCategory(ctx, actor, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	if input.AssignedToID != nil {
		if _, err := srv.userRepo.FindByID(ctx, *input.AssignedToID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, domainerrors.ErrUserNotFound.WithDetails("assignee does not exist")
			}

			return nil, errors.Wrap(err, "failed to look up assignee")
		}
	}
	if input.ParentTaskID != nil {
		if _, err := srv.taskRepo.FindByID(ctx, *input.ParentTaskID); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return nil, domainerrors.ErrTaskNotFound.WithDetails("parent task does not exist")
			}

			return nil, errors.Wrap(err, "failed to look up parent task")
		}
	}

	task := &entity.Task{
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Status,
		Priority:      input.Priority,
		DueDate:       input.DueDate,
		EstimatedTime: input.EstimatedTime,
		Attachments:   input.Attachments,
		Recurrence:    input.Recurrence,
		CategoryID:    input.CategoryID,
		AssignedToID:  input.AssignedToID,
		ParentTaskID:  input.ParentTaskID,
		CreatedByID:   actor.ID,
	}
	if task.Status == "" {
		task.Status = entity.TaskStatusNotStarted
	}
	if task.Priority == "" {
		task.Priority = entity.TaskPriorityMedium
	}
	if task.Recurrence == "" {
		task.Recurrence = entity.TaskRecurrenceNone
	}
	if task.Status == entity.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if task.AssignedToID != nil && *task.AssignedToID != actor.ID {
		srv.notifier.send(ctx, &entity.Notification{
			Type:    entity.NotificationTaskAssigned,
			Message: fmt.Sprintf("You have been assigned to task: %s", task.Title),
			UserID:  *task.AssignedToID,
			TaskID:  &task.ID,
		})
	}

	srv.auditor.record(ctx, actor.ID, "create_task", map[string]any{"title": task.Title}, input.Meta, "task", &task.ID)

	return srv.taskRepo.FindByID(ctx, task.ID)
}

// List retrieves a filtered page of tasks. Non-admin actors only see tasks
// they created or are assigned to.
func (srv *taskService) List(ctx context.Context, actor usecase.Actor, input usecase.ListTasksInput) (*usecase.TaskPage, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	filter := repository.TaskFilter{
		Status:       input.Status,
		Priority:     input.Priority,
		CategoryID:   input.CategoryID,
		AssignedToID: input.AssignedToID,
		CreatedByID:  input.CreatedByID,
		DueDateFrom:  input.DueDateFrom,
		DueDateTo:    input.DueDateTo,
		Search:       input.Search,
		SortBy:       input.SortBy,
		SortOrder:    input.SortOrder,
		Page:         page,
		Limit:        limit,
	}
	if !actor.IsAdmin() {
		actorID := actor.ID
		filter.VisibleToID = &actorID
	}

	tasks, total, err := srv.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &usecase.TaskPage{
		Tasks:      tasks,
		Pagination: usecase.NewPagination(total, page, limit),
	}, nil
}

// Get retrieves a single task with all associations.
func (srv *taskService) Get(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByIDFull(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, err
	}

	if !srv.canView(actor, task) {
		return nil, domainerrors.ErrForbidden
	}

	return task, nil
}

// Update applies a partial update. Only the creator or an admin may modify a
// task. Completion stamps CompletedAt; leaving the completed state clears it.
func (srv *taskService) Update(ctx context.Context, actor usecase.Actor, id uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, err
	}

	if task.CreatedByID != actor.ID && !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	previousAssignee := task.AssignedToID
	previousStatus := task.Status

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Recurrence != nil {
		task.Recurrence = *input.Recurrence
	}
	if input.EstimatedTime != nil {
		task.EstimatedTime = input.EstimatedTime
	}
	if input.Attachments != nil {
		task.Attachments = input.Attachments
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := srv.checkCategory(ctx, actor, *input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if _, err := srv.userRepo.FindByID(ctx, *input.AssignedToID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, domainerrors.ErrUserNotFound.WithDetails("assignee does not exist")
			}

			return nil, errors.Wrap(err, "failed to look up assignee")
		}
		task.AssignedToID = input.AssignedToID
	}

	if input.ClearParent {
		task.ParentTaskID = nil
	} else if input.ParentTaskID != nil {
		if *input.ParentTaskID == task.ID {
			return nil, domainerrors.ErrValidationFailed.WithDetails("a task cannot be its own parent")
		}
		if _, err := srv.taskRepo.FindByID(ctx, *input.ParentTaskID); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return nil, domainerrors.ErrTaskNotFound.WithDetails("parent task does not exist")
			}

			return nil, errors.Wrap(err, "failed to look up parent task")
		}
		task.ParentTaskID = input.ParentTaskID
	}

	if input.Status != nil {
		task.Status = *input.Status
		switch {
		case task.Status == entity.TaskStatusCompleted && previousStatus != entity.TaskStatusCompleted:
			now := time.Now()
			task.CompletedAt = &now
		case task.Status != entity.TaskStatusCompleted:
			task.CompletedAt = nil
		}
	}

	if err := srv.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	srv.sendUpdateNotifications(ctx, actor, task, previousAssignee, previousStatus)
	srv.auditor.record(ctx, actor.ID, "update_task", map[string]any{"title": task.Title}, input.Meta, "task", &task.ID)

	return srv.taskRepo.FindByID(ctx, task.ID)
}

// Delete removes a task. Only the creator or an admin may delete it.
func (srv *taskService) Delete(ctx context.Context, actor usecase.Actor, id uuid.UUID, meta usecase.RequestMeta) error {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound
		}

		return err
	}

	if task.CreatedByID != actor.ID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	if err := srv.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	srv.auditor.record(ctx, actor.ID, "delete_task", map[string]any{"title": task.Title}, meta, "task", &task.ID)

	return nil
}

// checkCategory confirms the category exists and belongs to the actor.
func (srv *taskService) checkCategory(ctx context.Context, actor usecase.Actor, categoryID uuid.UUID) error {
	category, err := srv.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return errors.Wrap(err, "failed to look up category")
	}

	if category.UserID != actor.ID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden.WithDetails("category belongs to another user")
	}

	return nil
}

// canView reports whether the actor may read the task.
func (srv *taskService) canView(actor usecase.Actor, task *entity.Task) bool {
	if actor.IsAdmin() || task.CreatedByID == actor.ID {
		return true
	}

	return task.AssignedToID != nil && *task.AssignedToID == actor.ID
}

// sendUpdateNotifications fans out the assignment, update, and completion
// notifications produced by an update.
func (srv *taskService) sendUpdateNotifications(ctx context.Context, actor usecase.Actor, task *entity.Task, previousAssignee *uuid.UUID, previousStatus entity.TaskStatus) {
	var notifications []*entity.Notification

	assigneeChanged := task.AssignedToID != nil &&
		(previousAssignee == nil || *previousAssignee != *task.AssignedToID)
	if assigneeChanged && *task.AssignedToID != actor.ID {
		notifications = append(notifications, &entity.Notification{
			Type:    entity.NotificationTaskAssigned,
			Message: fmt.Sprintf("You have been assigned to task: %s", task.Title),
			UserID:  *task.AssignedToID,
			TaskID:  &task.ID,
		})
	}

	completed := task.Status == entity.TaskStatusCompleted && previousStatus != entity.TaskStatusCompleted
	if completed && task.CreatedByID != actor.ID {
		notifications = append(notifications, &entity.Notification{
			Type:    entity.NotificationTaskCompleted,
			Message: fmt.Sprintf("Task completed: %s", task.Title),
			UserID:  task.CreatedByID,
			TaskID:  &task.ID,
		})
	}

	if !assigneeChanged && !completed && task.AssignedToID != nil && *task.AssignedToID != actor.ID {
		notifications = append(notifications, &entity.Notification{
			Type:    entity.NotificationTaskUpdated,
			Message: fmt.Sprintf("Task updated: %s", task.Title),
			UserID:  *task.AssignedToID,
			TaskID:  &task.ID,
		})
	}

	srv.notifier.send(ctx, notifications...)
}

// normalizePage clamps paging inputs to sane defaults.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
