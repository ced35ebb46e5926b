package impl

import (
	"context"
	"log/slog"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultCategoryColor = "#3498db"

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	taskRepo     repository.TaskRepository
	auditor      *auditor
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for categoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	TaskRepo     repository.TaskRepository
	ActivityRepo repository.ActivityRepository
	Logger       *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		taskRepo:     params.TaskRepo,
		auditor:      newAuditor(params.ActivityRepo, params.Logger),
		logger:       params.Logger,
	}
}

// Create persists a new category after checking the per-user name uniqueness.
func (srv *categoryService) Create(ctx context.Context, actor usecase.Actor, input usecase.CreateCategoryInput) (*entity.Category, error) {
	if _, err := srv.categoryRepo.FindByNameAndUser(ctx, input.Name, actor.ID); err == nil {
		return nil, domainerrors.ErrCategoryNameTaken
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, errors.Wrap(err, "failed to check category name")
	}

	category := &entity.Category{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		IsActive:    true,
		UserID:      actor.ID,
	}
	if category.Color == "" {
		category.Color = defaultCategoryColor
	}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, actor.ID, "create_category", map[string]any{"name": category.Name}, input.Meta, "category", &category.ID)

	return category, nil
}

// List retrieves the actor's categories with their per-status task counts.
func (srv *categoryService) List(ctx context.Context, actor usecase.Actor, input usecase.ListCategoriesInput) ([]*usecase.CategoryWithCounts, error) {
	categories, err := srv.categoryRepo.ListByUser(ctx, actor.ID, repository.CategoryFilter{
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	grouped, err := srv.taskRepo.CountByCategoryAndStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]usecase.CategoryTaskCounts, len(categories))
	for _, row := range grouped {
		tally := counts[row.CategoryID]
		tally.Total += row.Count
		switch entity.TaskStatus(row.Status) {
		case entity.TaskStatusCompleted:
			tally.Completed += row.Count
		case entity.TaskStatusInProgress:
			tally.InProgress += row.Count
		case entity.TaskStatusNotStarted:
			tally.NotStarted += row.Count
		}
		counts[row.CategoryID] = tally
	}

	out := make([]*usecase.CategoryWithCounts, 0, len(categories))
	for _, category := range categories {
		out = append(out, &usecase.CategoryWithCounts{Category: category, TaskCounts: counts[category.ID]})
	}

	return out, nil
}

// Get retrieves a single category owned by the actor.
func (srv *categoryService) Get(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Category, error) {
	return srv.ownedCategory(ctx, actor, id)
}

// Update applies a partial update, re-checking name uniqueness on rename.
func (srv *categoryService) Update(ctx context.Context, actor usecase.Actor, id uuid.UUID, input usecase.UpdateCategoryInput) (*entity.Category, error) {
	category, err := srv.ownedCategory(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		existing, err := srv.categoryRepo.FindByNameAndUser(ctx, *input.Name, category.UserID)
		if err == nil && existing.ID != category.ID {
			return nil, domainerrors.ErrCategoryNameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, errors.Wrap(err, "failed to check category name")
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Color != nil {
		category.Color = *input.Color
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, actor.ID, "update_category", map[string]any{"name": category.Name}, input.Meta, "category", &category.ID)

	return category, nil
}

// Delete removes a category, refusing while tasks still reference it.
func (srv *categoryService) Delete(ctx context.Context, actor usecase.Actor, id uuid.UUID, meta usecase.RequestMeta) error {
	category, err := srv.ownedCategory(ctx, actor, id)
	if err != nil {
		return err
	}

	count, err := srv.taskRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.ErrCategoryHasTasks
	}

	if err := srv.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	srv.auditor.record(ctx, actor.ID, "delete_category", map[string]any{"name": category.Name}, meta, "category", &category.ID)

	return nil
}

// ownedCategory fetches a category and confirms the actor owns it. Another
// user's category reads as not found, not forbidden, so category IDs leak
// nothing across users.
func (srv *categoryService) ownedCategory(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, err
	}

	if category.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domainerrors.ErrCategoryNotFound
	}

	return category, nil
}
