package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
	Icon        string

	Meta RequestMeta
}

// UpdateCategoryInput defines a partial category update.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	IsActive    *bool

	Meta RequestMeta
}

// ListCategoriesInput narrows and sorts a category listing.
type ListCategoriesInput struct {
	Search    string
	SortBy    string
	SortOrder string
}

// CategoryTaskCounts breaks down the tasks referencing a category by status.
type CategoryTaskCounts struct {
	Total      int64
	Completed  int64
	InProgress int64
	NotStarted int64
}

// CategoryWithCounts pairs a category with its per-status task tally.
type CategoryWithCounts struct {
	Category   *entity.Category
	TaskCounts CategoryTaskCounts
}

// CategoryUsecase defines the category CRUD operations. Categories are
// strictly per-user; no actor ever sees another user's categories.
type CategoryUsecase interface {
	Create(ctx context.Context, actor Actor, input CreateCategoryInput) (*entity.Category, error)
	List(ctx context.Context, actor Actor, input ListCategoriesInput) ([]*CategoryWithCounts, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Category, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateCategoryInput) (*entity.Category, error)

	// Delete refuses to remove a category while tasks still reference it.
	Delete(ctx context.Context, actor Actor, id uuid.UUID, meta RequestMeta) error
}
