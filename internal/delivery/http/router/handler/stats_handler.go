package handler

import (
	"net/http"
	"time"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StatsHandler holds dependencies for reporting endpoints.
type StatsHandler struct {
	uc usecase.StatsUsecase
}

// NewStatsHandler is the constructor for StatsHandler, injected by Fx.
func NewStatsHandler(uc usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

type statusCountView struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type priorityCountView struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

type categoryCountView struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
}

type taskDigestView struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	DueDate  *string `json:"dueDate"`
	Priority string  `json:"priority"`
	Status   string  `json:"status"`
}

type dailyCountView struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type weeklyCountView struct {
	WeekStart string `json:"weekStart"`
	Count     int64  `json:"count"`
}

type userTaskCountView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

type taskStatsResponse struct {
	Total         int64               `json:"total"`
	ByStatus      []statusCountView   `json:"byStatus"`
	ByPriority    []priorityCountView `json:"byPriority"`
	ByCategory    []categoryCountView `json:"byCategory"`
	Overdue       int64               `json:"overdue"`
	Upcoming      int64               `json:"upcoming"`
	OverdueTasks  []taskDigestView    `json:"overdueTasks"`
	UpcomingTasks []taskDigestView    `json:"upcomingTasks"`
	CompletedLast []dailyCountView    `json:"completedLast7Days"`
}

type productivityResponse struct {
	CompletedPerWeek      []weeklyCountView `json:"completedPerWeek"`
	AverageCompletionDays float64           `json:"averageCompletionDays"`
	CompletionRate        float64           `json:"completionRate"`
}

type projectStatsResponse struct {
	TotalTasks         int64               `json:"totalTasks"`
	TotalUsers         int64               `json:"totalUsers"`
	TotalCategories    int64               `json:"totalCategories"`
	ByStatus           []statusCountView   `json:"byStatus"`
	MostActiveUsers    []userTaskCountView `json:"mostActiveUsers"`
	MostUsedCategories []categoryCountView `json:"mostUsedCategories"`
}

// TaskStats handles the per-user task report.
func (h *StatsHandler) TaskStats(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	stats, err := h.uc.TaskStats(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := taskStatsResponse{
		Total:         stats.Total,
		ByStatus:      toStatusCountViews(stats.ByStatus),
		ByPriority:    make([]priorityCountView, 0, len(stats.ByPriority)),
		ByCategory:    toCategoryCountViews(stats.ByCategory),
		Overdue:       stats.Overdue,
		Upcoming:      stats.Upcoming,
		OverdueTasks:  toTaskDigestViews(stats.OverdueTasks),
		UpcomingTasks: toTaskDigestViews(stats.UpcomingTasks),
	}
	for _, p := range stats.ByPriority {
		resp.ByPriority = append(resp.ByPriority, priorityCountView{Priority: p.Priority, Count: p.Count})
	}
	resp.CompletedLast = make([]dailyCountView, 0, len(stats.CompletedLast))
	for _, d := range stats.CompletedLast {
		resp.CompletedLast = append(resp.CompletedLast, dailyCountView{
			Date:  d.Date.Format(time.DateOnly),
			Count: d.Count,
		})
	}

	return response.Success(c, http.StatusOK, resp, "")
}

// ProductivityStats handles the per-user productivity report.
func (h *StatsHandler) ProductivityStats(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	stats, err := h.uc.ProductivityStats(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := productivityResponse{
		CompletedPerWeek:      make([]weeklyCountView, 0, len(stats.CompletedPerWeek)),
		AverageCompletionDays: stats.AverageCompletionDays,
		CompletionRate:        stats.CompletionRate,
	}
	for _, w := range stats.CompletedPerWeek {
		resp.CompletedPerWeek = append(resp.CompletedPerWeek, weeklyCountView{
			WeekStart: w.WeekStart.Format(time.DateOnly),
			Count:     w.Count,
		})
	}

	return response.Success(c, http.StatusOK, resp, "")
}

// ProjectStats handles the admin-only system report.
func (h *StatsHandler) ProjectStats(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	stats, err := h.uc.ProjectStats(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := projectStatsResponse{
		TotalTasks:         stats.Totals.Tasks,
		TotalUsers:         stats.Totals.Users,
		TotalCategories:    stats.Totals.Categories,
		ByStatus:           toStatusCountViews(stats.ByStatus),
		MostActiveUsers:    make([]userTaskCountView, 0, len(stats.MostActiveUsers)),
		MostUsedCategories: toCategoryCountViews(stats.MostUsedCategories),
	}
	for _, u := range stats.MostActiveUsers {
		resp.MostActiveUsers = append(resp.MostActiveUsers, userTaskCountView{
			UserID:   u.UserID.String(),
			Username: u.Username,
			Count:    u.Count,
		})
	}

	return response.Success(c, http.StatusOK, resp, "")
}

func toTaskDigestViews(digests []repository.TaskDigest) []taskDigestView {
	views := make([]taskDigestView, 0, len(digests))
	for _, d := range digests {
		view := taskDigestView{
			ID:       d.ID.String(),
			Title:    d.Title,
			Priority: d.Priority,
			Status:   d.Status,
		}
		if d.DueDate != nil {
			due := d.DueDate.Format(time.RFC3339)
			view.DueDate = &due
		}
		views = append(views, view)
	}

	return views
}

func toStatusCountViews(counts []repository.StatusCount) []statusCountView {
	views := make([]statusCountView, 0, len(counts))
	for _, s := range counts {
		views = append(views, statusCountView{Status: s.Status, Count: s.Count})
	}

	return views
}

func toCategoryCountViews(counts []repository.CategoryCount) []categoryCountView {
	views := make([]categoryCountView, 0, len(counts))
	for _, cat := range counts {
		views = append(views, categoryCountView{
			CategoryID: cat.CategoryID.String(),
			Name:       cat.CategoryName,
			Count:      cat.Count,
		})
	}

	return views
}
