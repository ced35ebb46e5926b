package postgres

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// statsRepository implements the domain's StatsRepository interface with
// aggregate queries over the tasks table.
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository is the constructor for statsRepository.
func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// visibleTasks scopes a query to tasks the user created or is assigned to.
func (repo *statsRepository) visibleTasks(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Where("created_by_id = ? OR assigned_to_id = ?", userID, userID)
}

// CountByStatus tallies the user's tasks per status.
func (repo *statsRepository) CountByStatus(ctx context.Context, userID uuid.UUID) ([]repository.StatusCount, error) {
	var counts []repository.StatusCount
	err := repo.visibleTasks(ctx, userID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// CountAssignedByStatus tallies the tasks assigned to the user per status.
func (repo *statsRepository) CountAssignedByStatus(ctx context.Context, userID uuid.UUID) ([]repository.StatusCount, error) {
	var counts []repository.StatusCount
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("status, COUNT(*) AS count").
		Where("assigned_to_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// CountByPriority tallies the user's tasks per priority.
func (repo *statsRepository) CountByPriority(ctx context.Context, userID uuid.UUID) ([]repository.PriorityCount, error) {
	var counts []repository.PriorityCount
	err := repo.visibleTasks(ctx, userID).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// CountByCategories tallies the user's tasks per category.
func (repo *statsRepository) CountByCategories(ctx context.Context, userID uuid.UUID) ([]repository.CategoryCount, error) {
	var counts []repository.CategoryCount
	err := repo.visibleTasks(ctx, userID).
		Select("categories.id AS category_id, categories.name AS category_name, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = tasks.category_id").
		Group("categories.id, categories.name").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// CountOverdue counts the user's incomplete tasks past their due date.
func (repo *statsRepository) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := repo.visibleTasks(ctx, userID).
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", string(entity.TaskStatusCompleted), now).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountUpcoming counts the user's incomplete tasks due within the window.
func (repo *statsRepository) CountUpcoming(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := repo.visibleTasks(ctx, userID).
		Where("status <> ? AND due_date >= ? AND due_date <= ?", string(entity.TaskStatusCompleted), from, to).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// OverdueTasks lists the user's incomplete tasks past their due date,
// soonest first.
func (repo *statsRepository) OverdueTasks(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]repository.TaskDigest, error) {
	var digests []repository.TaskDigest
	err := repo.visibleTasks(ctx, userID).
		Select("id, title, due_date, priority, status").
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", string(entity.TaskStatusCompleted), now).
		Order("due_date ASC").
		Limit(limit).
		Scan(&digests).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return digests, nil
}

// UpcomingTasks lists the user's incomplete tasks due within the window,
// soonest first.
func (repo *statsRepository) UpcomingTasks(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]repository.TaskDigest, error) {
	var digests []repository.TaskDigest
	err := repo.visibleTasks(ctx, userID).
		Select("id, title, due_date, priority, status").
		Where("status <> ? AND due_date >= ? AND due_date <= ?", string(entity.TaskStatusCompleted), from, to).
		Order("due_date ASC").
		Limit(limit).
		Scan(&digests).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return digests, nil
}

// CountTotal counts all of the user's tasks.
func (repo *statsRepository) CountTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.visibleTasks(ctx, userID).Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CompletedPerDay tallies the user's completed tasks per day since from.
func (repo *statsRepository) CompletedPerDay(ctx context.Context, userID uuid.UUID, from time.Time) ([]repository.DailyCount, error) {
	var counts []repository.DailyCount
	err := repo.visibleTasks(ctx, userID).
		Select("DATE_TRUNC('day', completed_at) AS day, COUNT(*) AS count").
		Where("status = ? AND completed_at >= ?", string(entity.TaskStatusCompleted), from).
		Group("day").
		Order("day ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// CountCompletedSince counts the user's tasks completed since from.
func (repo *statsRepository) CountCompletedSince(ctx context.Context, userID uuid.UUID, from time.Time) (int64, error) {
	var count int64
	err := repo.visibleTasks(ctx, userID).
		Where("status = ? AND completed_at >= ?", string(entity.TaskStatusCompleted), from).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// AverageCompletionDays averages the days between creation and completion of
// the user's completed tasks.
func (repo *statsRepository) AverageCompletionDays(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	err := repo.visibleTasks(ctx, userID).
		Select("AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 86400.0)").
		Where("status = ? AND completed_at IS NOT NULL", string(entity.TaskStatusCompleted)).
		Scan(&avg).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if avg == nil {
		return 0, nil
	}

	return *avg, nil
}

// Totals counts tasks, users, and categories across the system.
func (repo *statsRepository) Totals(ctx context.Context) (repository.SystemTotals, error) {
	var totals repository.SystemTotals

	if err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).Count(&totals.Tasks).Error; err != nil {
		return totals, errors.WithStack(err)
	}
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Count(&totals.Users).Error; err != nil {
		return totals, errors.WithStack(err)
	}
	if err := repo.db.WithContext(ctx).Model(&model.CategoryModel{}).Count(&totals.Categories).Error; err != nil {
		return totals, errors.WithStack(err)
	}

	return totals, nil
}

// CountByStatusAll tallies every task in the system per status.
func (repo *statsRepository) CountByStatusAll(ctx context.Context) ([]repository.StatusCount, error) {
	var counts []repository.StatusCount
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// MostActiveUsers tallies completed tasks per user across the system.
func (repo *statsRepository) MostActiveUsers(ctx context.Context, limit int) ([]repository.UserTaskCount, error) {
	var counts []repository.UserTaskCount
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("users.id AS user_id, users.username AS username, COUNT(*) AS count").
		Joins("JOIN users ON users.id = tasks.created_by_id").
		Where("tasks.status = ?", string(entity.TaskStatusCompleted)).
		Group("users.id, users.username").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}

// MostUsedCategories tallies tasks per category across the system.
func (repo *statsRepository) MostUsedCategories(ctx context.Context, limit int) ([]repository.CategoryCount, error) {
	var counts []repository.CategoryCount
	err := repo.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("categories.id AS category_id, categories.name AS category_name, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = tasks.category_id").
		Group("categories.id, categories.name").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return counts, nil
}
