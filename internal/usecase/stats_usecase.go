package usecase

import (
	"context"
	"time"

	"taskhub/internal/domain/repository"
)

// TaskStatsOutput is the per-user task report.
type TaskStatsOutput struct {
	Total         int64
	ByStatus      []repository.StatusCount
	ByPriority    []repository.PriorityCount
	ByCategory    []repository.CategoryCount
	Overdue       int64
	Upcoming      int64 // due within the next seven days
	OverdueTasks  []repository.TaskDigest
	UpcomingTasks []repository.TaskDigest
	CompletedLast []DailyCompletion
}

// DailyCompletion is a completed-task tally for one day.
type DailyCompletion struct {
	Date  time.Time
	Count int64
}

// WeeklyCompletion is a completed-task tally for one week, keyed by the
// week's first day.
type WeeklyCompletion struct {
	WeekStart time.Time
	Count     int64
}

// ProductivityOutput is the per-user productivity report.
type ProductivityOutput struct {
	CompletedPerWeek      []WeeklyCompletion // last four weeks
	AverageCompletionDays float64
	CompletionRate        float64 // completed / total as a percentage, 0 when no tasks exist
}

// ProjectStatsOutput is the admin-only system report.
type ProjectStatsOutput struct {
	Totals             repository.SystemTotals
	ByStatus           []repository.StatusCount
	MostActiveUsers    []repository.UserTaskCount
	MostUsedCategories []repository.CategoryCount
}

// StatsUsecase defines the reporting operations.
type StatsUsecase interface {
	TaskStats(ctx context.Context, actor Actor) (*TaskStatsOutput, error)
	ProductivityStats(ctx context.Context, actor Actor) (*ProductivityOutput, error)

	// ProjectStats is admin-only.
	ProjectStats(ctx context.Context, actor Actor) (*ProjectStatsOutput, error)
}
