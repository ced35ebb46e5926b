package impl

import (
	"context"
	"log/slog"
	"time"

	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"go.uber.org/fx"
)

const (
	upcomingWindow    = 7 * 24 * time.Hour
	dailyChartDays    = 7
	weeklyChartWeeks  = 4
	leaderboardLength = 5
	dueListLength     = 5
)

// statsService implements the StatsUsecase interface.
type statsService struct {
	statsRepo repository.StatsRepository
	logger    *slog.Logger
}

// StatsServiceParams holds dependencies for statsService, injected by Fx.
type StatsServiceParams struct {
	fx.In

	StatsRepo repository.StatsRepository
	Logger    *slog.Logger
}

// NewStatsService is the constructor for statsService.
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		statsRepo: params.StatsRepo,
		logger:    params.Logger,
	}
}

// TaskStats builds the actor's task report: totals per status, priority, and
// category, overdue and upcoming counts, and the last week's completion chart.
func (srv *statsService) TaskStats(ctx context.Context, actor usecase.Actor) (*usecase.TaskStatsOutput, error) {
	now := time.Now()

	total, err := srv.statsRepo.CountTotal(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	byStatus, err := srv.statsRepo.CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	byPriority, err := srv.statsRepo.CountByPriority(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	byCategory, err := srv.statsRepo.CountByCategories(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	overdue, err := srv.statsRepo.CountOverdue(ctx, actor.ID, now)
	if err != nil {
		return nil, err
	}

	upcoming, err := srv.statsRepo.CountUpcoming(ctx, actor.ID, now, now.Add(upcomingWindow))
	if err != nil {
		return nil, err
	}

	overdueTasks, err := srv.statsRepo.OverdueTasks(ctx, actor.ID, now, dueListLength)
	if err != nil {
		return nil, err
	}

	upcomingTasks, err := srv.statsRepo.UpcomingTasks(ctx, actor.ID, now, now.Add(upcomingWindow), dueListLength)
	if err != nil {
		return nil, err
	}

	chartStart := startOfDay(now).AddDate(0, 0, -(dailyChartDays - 1))
	perDay, err := srv.statsRepo.CompletedPerDay(ctx, actor.ID, chartStart)
	if err != nil {
		return nil, err
	}

	// Every day appears in the chart, zero-filled when nothing completed.
	counted := make(map[time.Time]int64, len(perDay))
	for _, d := range perDay {
		counted[startOfDay(d.Day)] = d.Count
	}
	chart := make([]usecase.DailyCompletion, 0, dailyChartDays)
	for i := range dailyChartDays {
		day := chartStart.AddDate(0, 0, i)
		chart = append(chart, usecase.DailyCompletion{Date: day, Count: counted[day]})
	}

	return &usecase.TaskStatsOutput{
		Total:         total,
		ByStatus:      byStatus,
		ByPriority:    byPriority,
		ByCategory:    byCategory,
		Overdue:       overdue,
		Upcoming:      upcoming,
		OverdueTasks:  overdueTasks,
		UpcomingTasks: upcomingTasks,
		CompletedLast: chart,
	}, nil
}

// ProductivityStats builds the actor's productivity report over the last
// four weeks.
func (srv *statsService) ProductivityStats(ctx context.Context, actor usecase.Actor) (*usecase.ProductivityOutput, error) {
	now := time.Now()
	windowStart := startOfDay(now).AddDate(0, 0, -weeklyChartWeeks*7+1)

	perDay, err := srv.statsRepo.CompletedPerDay(ctx, actor.ID, windowStart)
	if err != nil {
		return nil, err
	}

	perWeek := make([]usecase.WeeklyCompletion, weeklyChartWeeks)
	for i := range weeklyChartWeeks {
		perWeek[i].WeekStart = windowStart.AddDate(0, 0, i*7)
	}
	for _, d := range perDay {
		idx := int(startOfDay(d.Day).Sub(windowStart).Hours()) / (24 * 7)
		if idx >= 0 && idx < weeklyChartWeeks {
			perWeek[idx].Count += d.Count
		}
	}

	avgDays, err := srv.statsRepo.AverageCompletionDays(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	total, err := srv.statsRepo.CountTotal(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	// Rate is all-time completed over all tasks as a percentage, not
	// window-scoped.
	var rate float64
	if total > 0 {
		completed, err := srv.statsRepo.CountCompletedSince(ctx, actor.ID, time.Time{})
		if err != nil {
			return nil, err
		}
		rate = float64(completed) / float64(total) * 100
	}

	return &usecase.ProductivityOutput{
		CompletedPerWeek:      perWeek,
		AverageCompletionDays: avgDays,
		CompletionRate:        rate,
	}, nil
}

// ProjectStats builds the system-wide report. Admin only.
func (srv *statsService) ProjectStats(ctx context.Context, actor usecase.Actor) (*usecase.ProjectStatsOutput, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	totals, err := srv.statsRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := srv.statsRepo.CountByStatusAll(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := srv.statsRepo.MostActiveUsers(ctx, leaderboardLength)
	if err != nil {
		return nil, err
	}

	usedCategories, err := srv.statsRepo.MostUsedCategories(ctx, leaderboardLength)
	if err != nil {
		return nil, err
	}

	return &usecase.ProjectStatsOutput{
		Totals:             totals,
		ByStatus:           byStatus,
		MostActiveUsers:    activeUsers,
		MostUsedCategories: usedCategories,
	}, nil
}

// startOfDay truncates a time to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
