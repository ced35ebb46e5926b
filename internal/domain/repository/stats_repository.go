package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusCount is a task tally for a single status value.
type StatusCount struct {
	Status string
	Count  int64
}

// PriorityCount is a task tally for a single priority value.
type PriorityCount struct {
	Priority string
	Count    int64
}

// CategoryCount is a task tally for a single category.
type CategoryCount struct {
	CategoryID   uuid.UUID
	CategoryName string
	Count        int64
}

// DailyCount is a completed-task tally for a single day.
type DailyCount struct {
	Day   time.Time
	Count int64
}

// UserTaskCount is a completed-task tally for a single user.
type UserTaskCount struct {
	UserID   uuid.UUID
	Username string
	Count    int64
}

// TaskDigest is a short task row for the overdue and upcoming listings.
type TaskDigest struct {
	ID       uuid.UUID
	Title    string
	DueDate  *time.Time
	Priority string
	Status   string
}

// SystemTotals are the system-wide row counts for the admin report.
type SystemTotals struct {
	Tasks      int64
	Users      int64
	Categories int64
}

// StatsRepository aggregates task data for the reporting endpoints.
// All queries are scoped to tasks visible to the user: tasks they
// created or are assigned to.
type StatsRepository interface {
	// CountByStatus tallies the user's tasks per status.
	CountByStatus(ctx context.Context, userID uuid.UUID) ([]StatusCount, error)

	// CountAssignedByStatus tallies the tasks assigned to the user per status.
	CountAssignedByStatus(ctx context.Context, userID uuid.UUID) ([]StatusCount, error)

	// CountByPriority tallies the user's tasks per priority.
	CountByPriority(ctx context.Context, userID uuid.UUID) ([]PriorityCount, error)

	// CountByCategories tallies the user's tasks per category.
	CountByCategories(ctx context.Context, userID uuid.UUID) ([]CategoryCount, error)

	// CountOverdue counts the user's incomplete tasks past their due date.
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)

	// CountUpcoming counts the user's incomplete tasks due within the window.
	CountUpcoming(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)

	// OverdueTasks lists the user's incomplete tasks past their due date,
	// soonest first, at most limit rows.
	OverdueTasks(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]TaskDigest, error)

	// UpcomingTasks lists the user's incomplete tasks due within the window,
	// soonest first, at most limit rows.
	UpcomingTasks(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]TaskDigest, error)

	// CountTotal counts all of the user's tasks.
	CountTotal(ctx context.Context, userID uuid.UUID) (int64, error)

	// CompletedPerDay tallies the user's completed tasks per day since from.
	CompletedPerDay(ctx context.Context, userID uuid.UUID, from time.Time) ([]DailyCount, error)

	// CountCompletedSince counts the user's tasks completed since from.
	CountCompletedSince(ctx context.Context, userID uuid.UUID, from time.Time) (int64, error)

	// AverageCompletionDays averages, over the user's completed tasks, the
	// days between creation and completion. Zero when nothing is completed.
	AverageCompletionDays(ctx context.Context, userID uuid.UUID) (float64, error)

	// Totals counts tasks, users, and categories across the system.
	Totals(ctx context.Context) (SystemTotals, error)

	// CountByStatusAll tallies every task in the system per status.
	CountByStatusAll(ctx context.Context) ([]StatusCount, error)

	// MostActiveUsers tallies completed tasks per user across the system,
	// highest first, at most limit rows.
	MostActiveUsers(ctx context.Context, limit int) ([]UserTaskCount, error)

	// MostUsedCategories tallies tasks per category across the system,
	// highest first, at most limit rows.
	MostUsedCategories(ctx context.Context, limit int) ([]CategoryCount, error)
}
