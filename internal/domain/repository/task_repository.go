package repository

import (
	"context"
	"errors"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows, sorts, and pages a task listing.
type TaskFilter struct {
	// VisibleToID, when set, restricts results to tasks the user created or
	// is assigned to. Admin listings leave it nil.
	VisibleToID  *uuid.UUID
	Status       entity.TaskStatus
	Priority     entity.TaskPriority
	CategoryID   *uuid.UUID
	AssignedToID *uuid.UUID
	CreatedByID  *uuid.UUID
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	Search       string // Case-insensitive match over title and description.
	SortBy       string // Whitelisted by the persistence layer, defaults to created_at.
	SortOrder    string // "asc" or "desc".
	Page         int
	Limit        int
}

// TaskRepository defines the standard operations for task persistence.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a task with creator, assignee, and category loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// FindByIDFull retrieves a task with all associations loaded: creator,
	// assignee, category, parent task, subtasks, and comments with authors.
	FindByIDFull(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// List retrieves tasks matching the filter plus the total match count.
	List(ctx context.Context, filter TaskFilter) ([]*entity.Task, int64, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a task permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByCategory returns how many tasks reference the category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountByCategoryAndStatus tallies tasks per category and status across
	// every category owned by the user.
	CountByCategoryAndStatus(ctx context.Context, ownerID uuid.UUID) ([]CategoryStatusCount, error)
}

// CategoryStatusCount is one row of a per-category per-status task tally.
type CategoryStatusCount struct {
	CategoryID uuid.UUID
	Status     string
	Count      int64
}
