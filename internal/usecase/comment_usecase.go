package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCommentInput defines the data required to comment on a task.
type CreateCommentInput struct {
	Content         string
	TaskID          uuid.UUID
	ParentCommentID *uuid.UUID

	Meta RequestMeta
}

// CommentUsecase defines the comment operations. Creating a comment notifies
// the task's creator, assignee, and the parent comment's author, excluding
// the commenter.
type CommentUsecase interface {
	Create(ctx context.Context, actor Actor, input CreateCommentInput) (*entity.Comment, error)
	ListByTask(ctx context.Context, actor Actor, taskID uuid.UUID) ([]*entity.Comment, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, content string) (*entity.Comment, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}
