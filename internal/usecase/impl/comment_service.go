package impl

import (
	"context"
	"fmt"
	"log/slog"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// commentService implements the CommentUsecase interface.
type commentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	notifier    *notifier
	auditor     *auditor
	logger      *slog.Logger
}

// CommentServiceParams holds dependencies for commentService, injected by Fx.
type CommentServiceParams struct {
	fx.In

	CommentRepo      repository.CommentRepository
	TaskRepo         repository.TaskRepository
	NotificationRepo repository.NotificationRepository
	ActivityRepo     repository.ActivityRepository
	Logger           *slog.Logger
}

// NewCommentService is the constructor for commentService.
func NewCommentService(params CommentServiceParams) usecase.CommentUsecase {
	return &commentService{
		commentRepo: params.CommentRepo,
		taskRepo:    params.TaskRepo,
		notifier:    newNotifier(params.NotificationRepo, params.Logger),
		auditor:     newAuditor(params.ActivityRepo, params.Logger),
		logger:      params.Logger,
	}
}

// Create adds a comment to a task. A reply must name a parent on the same
// task. The task's creator and assignee and the parent comment's author are
// notified, minus the commenter.
func (srv *commentService) Create(ctx context.Context, actor usecase.Actor, input usecase.CreateCommentInput) (*entity.Comment, error) {
	task, err := srv.taskRepo.FindByID(ctx, input.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, err
	}

	var parent *entity.Comment
	if input.ParentCommentID != nil {
		parent, err = srv.commentRepo.FindByID(ctx, *input.ParentCommentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return nil, domainerrors.ErrCommentNotFound.WithDetails("parent comment does not exist")
			}

			return nil, err
		}
		if parent.TaskID != task.ID {
			return nil, domainerrors.ErrValidationFailed.WithDetails("parent comment belongs to a different task")
		}
	}

	comment := &entity.Comment{
		Content:         input.Content,
		TaskID:          task.ID,
		UserID:          actor.ID,
		ParentCommentID: input.ParentCommentID,
	}

	if err := srv.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	srv.notifier.send(ctx, commentNotifications(actor, task, parent, comment)...)
	srv.auditor.record(ctx, actor.ID, "create_comment", nil, input.Meta, "comment", &comment.ID)

	return srv.commentRepo.FindByID(ctx, comment.ID)
}

// ListByTask retrieves a task's comments with reply nesting.
func (srv *commentService) ListByTask(ctx context.Context, actor usecase.Actor, taskID uuid.UUID) ([]*entity.Comment, error) {
	if _, err := srv.taskRepo.FindByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, err
	}

	return srv.commentRepo.ListByTask(ctx, taskID)
}

// Update edits a comment's content. Only the author or an admin may edit.
func (srv *commentService) Update(ctx context.Context, actor usecase.Actor, id uuid.UUID, content string) (*entity.Comment, error) {
	comment, err := srv.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, domainerrors.ErrCommentNotFound
		}

		return nil, err
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	comment.Content = content
	if err := srv.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return srv.commentRepo.FindByID(ctx, id)
}

// Delete removes a comment and its replies. Only the author or an admin may
// delete.
func (srv *commentService) Delete(ctx context.Context, actor usecase.Actor, id uuid.UUID) error {
	comment, err := srv.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return domainerrors.ErrCommentNotFound
		}

		return err
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	return srv.commentRepo.Delete(ctx, id)
}

// commentNotifications builds the fan-out set for a new comment: the task
// creator, the task assignee, and the parent comment author, deduplicated
// and excluding the commenter.
func commentNotifications(actor usecase.Actor, task *entity.Task, parent *entity.Comment, comment *entity.Comment) []*entity.Notification {
	recipients := map[uuid.UUID]bool{task.CreatedByID: true}
	if task.AssignedToID != nil {
		recipients[*task.AssignedToID] = true
	}
	if parent != nil {
		recipients[parent.UserID] = true
	}
	delete(recipients, actor.ID)

	notifications := make([]*entity.Notification, 0, len(recipients))
	for userID := range recipients {
		notifications = append(notifications, &entity.Notification{
			Type:      entity.NotificationCommentAdded,
			Message:   fmt.Sprintf("New comment on task: %s", task.Title),
			UserID:    userID,
			TaskID:    &task.ID,
			CommentID: &comment.ID,
		})
	}

	return notifications
}
