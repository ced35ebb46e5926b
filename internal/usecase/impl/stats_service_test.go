package impl

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStatsRepo returns canned aggregates so the service's shaping of the
// reports can be asserted without a database.
type stubStatsRepo struct {
	total     int64
	completed int64
	overdue   []repository.TaskDigest
	upcoming  []repository.TaskDigest
	perDay    []repository.DailyCount
}

func (s *stubStatsRepo) CountByStatus(context.Context, uuid.UUID) ([]repository.StatusCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) CountAssignedByStatus(context.Context, uuid.UUID) ([]repository.StatusCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) CountByPriority(context.Context, uuid.UUID) ([]repository.PriorityCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) CountByCategories(context.Context, uuid.UUID) ([]repository.CategoryCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) CountOverdue(context.Context, uuid.UUID, time.Time) (int64, error) {
	return int64(len(s.overdue)), nil
}

func (s *stubStatsRepo) CountUpcoming(context.Context, uuid.UUID, time.Time, time.Time) (int64, error) {
	return int64(len(s.upcoming)), nil
}

func (s *stubStatsRepo) OverdueTasks(context.Context, uuid.UUID, time.Time, int) ([]repository.TaskDigest, error) {
	return s.overdue, nil
}

func (s *stubStatsRepo) UpcomingTasks(context.Context, uuid.UUID, time.Time, time.Time, int) ([]repository.TaskDigest, error) {
	return s.upcoming, nil
}

func (s *stubStatsRepo) CountTotal(context.Context, uuid.UUID) (int64, error) {
	return s.total, nil
}

func (s *stubStatsRepo) CompletedPerDay(context.Context, uuid.UUID, time.Time) ([]repository.DailyCount, error) {
	return s.perDay, nil
}

func (s *stubStatsRepo) CountCompletedSince(context.Context, uuid.UUID, time.Time) (int64, error) {
	return s.completed, nil
}

func (s *stubStatsRepo) AverageCompletionDays(context.Context, uuid.UUID) (float64, error) {
	return 0, nil
}

func (s *stubStatsRepo) Totals(context.Context) (repository.SystemTotals, error) {
	return repository.SystemTotals{}, nil
}

func (s *stubStatsRepo) CountByStatusAll(context.Context) ([]repository.StatusCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) MostActiveUsers(context.Context, int) ([]repository.UserTaskCount, error) {
	return nil, nil
}

func (s *stubStatsRepo) MostUsedCategories(context.Context, int) ([]repository.CategoryCount, error) {
	return nil, nil
}

func newStatsService(repo repository.StatsRepository) usecase.StatsUsecase {
	return NewStatsService(StatsServiceParams{StatsRepo: repo, Logger: testLogger()})
}

func TestTaskStatsIncludesDueTaskLists(t *testing.T) {
	due := time.Now().Add(time.Hour)
	repo := &stubStatsRepo{
		total: 3,
		overdue: []repository.TaskDigest{
			{ID: uuid.New(), Title: "late", Priority: "high", Status: "in_progress"},
		},
		upcoming: []repository.TaskDigest{
			{ID: uuid.New(), Title: "soon", DueDate: &due, Priority: "medium", Status: "not_started"},
			{ID: uuid.New(), Title: "later", Priority: "low", Status: "not_started"},
		},
	}
	svc := newStatsService(repo)

	stats, err := svc.TaskStats(context.Background(), usecase.Actor{ID: uuid.New(), Role: entity.RoleUser})
	require.NoError(t, err)
	require.Len(t, stats.OverdueTasks, 1)
	assert.Equal(t, "late", stats.OverdueTasks[0].Title)
	require.Len(t, stats.UpcomingTasks, 2)
	assert.Equal(t, "soon", stats.UpcomingTasks[0].Title)
	assert.Equal(t, int64(1), stats.Overdue)
	assert.Equal(t, int64(2), stats.Upcoming)
	// The completion chart always spans the full week, zero-filled.
	assert.Len(t, stats.CompletedLast, 7)
}

func TestProductivityCompletionRateIsPercentage(t *testing.T) {
	svc := newStatsService(&stubStatsRepo{total: 4, completed: 1})

	out, err := svc.ProductivityStats(context.Background(), usecase.Actor{ID: uuid.New(), Role: entity.RoleUser})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, out.CompletionRate, 0.001)

	empty, err := newStatsService(&stubStatsRepo{}).ProductivityStats(context.Background(), usecase.Actor{ID: uuid.New(), Role: entity.RoleUser})
	require.NoError(t, err)
	assert.Zero(t, empty.CompletionRate)
}

func TestProjectStatsRequiresAdmin(t *testing.T) {
	svc := newStatsService(&stubStatsRepo{})

	_, err := svc.ProjectStats(context.Background(), usecase.Actor{ID: uuid.New(), Role: entity.RoleUser})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
