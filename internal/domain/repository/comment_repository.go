package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCommentNotFound is returned when a comment is not found.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository defines the standard operations for comment persistence.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *entity.Comment) error

	// FindByID retrieves a comment with its author loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)

	// ListByTask retrieves top-level comments for a task with authors and
	// replies loaded, oldest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*entity.Comment, error)

	// Update modifies an existing comment.
	Update(ctx context.Context, comment *entity.Comment) error

	// Delete removes a comment and its replies permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
