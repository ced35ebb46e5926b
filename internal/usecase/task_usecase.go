package usecase

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPagination computes the page descriptor for a total row count.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	Title         string
	Description   string
	Status        entity.TaskStatus
	Priority      entity.TaskPriority
	DueDate       *time.Time
	EstimatedTime *int
	Attachments   []string
	Recurrence    entity.TaskRecurrence
	CategoryID    *uuid.UUID
	AssignedToID  *uuid.UUID
	ParentTaskID  *uuid.UUID

	Meta RequestMeta
}

// UpdateTaskInput defines a partial task update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *entity.TaskStatus
	Priority      *entity.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	EstimatedTime *int
	Attachments   []string
	Recurrence    *entity.TaskRecurrence
	CategoryID    *uuid.UUID
	ClearCategory bool
	AssignedToID  *uuid.UUID
	ClearAssignee bool
	ParentTaskID  *uuid.UUID
	ClearParent   bool

	Meta RequestMeta
}

// ListTasksInput carries the listing filters from the query string.
type ListTasksInput struct {
	Status       entity.TaskStatus
	Priority     entity.TaskPriority
	CategoryID   *uuid.UUID
	AssignedToID *uuid.UUID
	CreatedByID  *uuid.UUID
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	Search       string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// TaskPage is one page of tasks.
type TaskPage struct {
	Tasks      []*entity.Task
	Pagination Pagination
}

// TaskUsecase defines the task CRUD operations. Non-admin actors only see
// tasks they created or are assigned to.
type TaskUsecase interface {
	Create(ctx context.Context, actor Actor, input CreateTaskInput) (*entity.Task, error)
	List(ctx context.Context, actor Actor, input ListTasksInput) (*TaskPage, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID, meta RequestMeta) error
}
