package postgres

import (
	"context"
	"encoding/json"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// sortableTaskColumns whitelists the columns a task listing may be ordered by.
var sortableTaskColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"status":    "status",
	"title":     "title",
}

// taskRepository implements the domain's TaskRepository interface.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM, err := fromTaskDomain(task)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid task reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// FindByID retrieves a task with its creator, assignee, and category loaded.
func (repo *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel
	err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Preload("Category").
		Where("id = ?", id).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toTaskDomain(&taskM)
}

// FindByIDFull retrieves a task with every association loaded.
func (repo *taskRepository) FindByIDFull(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel
	err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Preload("Category").
		Preload("ParentTask").
		Preload("Subtasks").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_comment_id IS NULL").Order("created_at ASC")
		}).
		Preload("Comments.User").
		Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Replies.User").
		Where("id = ?", id).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toTaskDomain(&taskM)
}

// List retrieves a page of tasks matching the filter plus the total match count.
func (repo *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.TaskModel{})

	if filter.VisibleToID != nil {
		query = query.Where("created_by_id = ? OR assigned_to_id = ?", *filter.VisibleToID, *filter.VisibleToID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", string(filter.Priority))
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("due_date <= ?", *filter.DueDateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	column, ok := sortableTaskColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	var taskModels []*model.TaskModel
	err := query.
		Preload("Creator").
		Preload("Assignee").
		Preload("Category").
		Order(column + " " + direction).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&taskModels).Error
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	tasks := make([]*entity.Task, 0, len(taskModels))
	for _, taskM := range taskModels {
		task, err := toTaskDomain(taskM)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}

	return tasks, total, nil
}

// Update persists changes to an existing task.
func (repo *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	taskM, err := fromTaskDomain(task)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Where("id = ?", taskM.ID).
		Select("*").
		Omit("id", "created_at", "created_by_id").
		Updates(taskM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task permanently.
func (repo *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TaskModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// CountByCategory returns how many tasks reference the category.
func (repo *taskRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountByCategoryAndStatus tallies tasks per category and status across
// every category owned by the user.
func (repo *taskRepository) CountByCategoryAndStatus(ctx context.Context, ownerID uuid.UUID) ([]repository.CategoryStatusCount, error) {
	var counts []repository.CategoryStatusCount
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("tasks.category_id AS category_id, tasks.status AS status, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = tasks.category_id").
		Where("categories.user_id = ?", ownerID).
		Group("tasks.category_id, tasks.status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// toTaskDomain converts a persistence model to a domain entity, including
// whatever associations were preloaded.
func toTaskDomain(data *model.TaskModel) (*entity.Task, error) {
	var attachments []string
	if len(data.Attachments) > 0 {
		if err := json.Unmarshal(data.Attachments, &attachments); err != nil {
			return nil, errors.Wrap(err, "unmarshal task attachments")
		}
	}

	task := &entity.Task{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Status:        entity.TaskStatus(data.Status),
		Priority:      entity.TaskPriority(data.Priority),
		DueDate:       data.DueDate,
		CompletedAt:   data.CompletedAt,
		EstimatedTime: data.EstimatedTime,
		Attachments:   attachments,
		Recurrence:    entity.TaskRecurrence(data.Recurrence),
		CategoryID:    data.CategoryID,
		CreatedByID:   data.CreatedByID,
		AssignedToID:  data.AssignedToID,
		ParentTaskID:  data.ParentTaskID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	if data.Creator != nil {
		task.Creator = toUserDomain(data.Creator)
	}
	if data.Assignee != nil {
		task.Assignee = toUserDomain(data.Assignee)
	}
	if data.Category != nil {
		task.Category = toCategoryDomain(data.Category)
	}
	if data.ParentTask != nil {
		parent, err := toTaskDomain(data.ParentTask)
		if err != nil {
			return nil, err
		}
		task.ParentTask = parent
	}
	for _, subM := range data.Subtasks {
		sub, err := toTaskDomain(subM)
		if err != nil {
			return nil, err
		}
		task.Subtasks = append(task.Subtasks, sub)
	}
	for _, commentM := range data.Comments {
		task.Comments = append(task.Comments, toCommentDomain(commentM))
	}

	return task, nil
}

// fromTaskDomain converts a domain entity to a persistence model.
// Associations are never written through the task table.
func fromTaskDomain(data *entity.Task) (*model.TaskModel, error) {
	var attachments datatypes.JSON
	if data.Attachments != nil {
		raw, err := json.Marshal(data.Attachments)
		if err != nil {
			return nil, errors.Wrap(err, "marshal task attachments")
		}
		attachments = datatypes.JSON(raw)
	}

	return &model.TaskModel{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Status:        string(data.Status),
		Priority:      string(data.Priority),
		DueDate:       data.DueDate,
		CompletedAt:   data.CompletedAt,
		EstimatedTime: data.EstimatedTime,
		Recurrence:    string(data.Recurrence),
		Attachments:   attachments,
		CategoryID:    data.CategoryID,
		AssignedToID:  data.AssignedToID,
		CreatedByID:   data.CreatedByID,
		ParentTaskID:  data.ParentTaskID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}
