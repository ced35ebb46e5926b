package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryFilter narrows and sorts a category listing.
type CategoryFilter struct {
	Search    string // Case-insensitive match over the name.
	SortBy    string // Whitelisted by the persistence layer, defaults to name.
	SortOrder string // "asc" or "desc".
}

// CategoryRepository defines the standard operations for category persistence.
type CategoryRepository interface {
	// Create persists a new category.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByNameAndUser retrieves a category owned by the user with the
	// given name. Returns ErrCategoryNotFound when no such category exists.
	FindByNameAndUser(ctx context.Context, name string, userID uuid.UUID) (*entity.Category, error)

	// ListByUser retrieves the categories owned by the user matching the
	// filter.
	ListByUser(ctx context.Context, userID uuid.UUID, filter CategoryFilter) ([]*entity.Category, error)

	// Update modifies an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
