package handler

import (
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
)

// View models decouple the JSON contract from the domain entities. Field
// names follow the API's camelCase convention.

// UserView is the public representation of a user. The password hash and
// reset-token fields are never serialized.
type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TaskView is the public representation of a task.
type TaskView struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
	EstimatedTime *int           `json:"estimatedTime,omitempty"`
	Attachments   []string       `json:"attachments,omitempty"`
	Recurrence    string         `json:"recurrence"`
	CategoryID    *uuid.UUID     `json:"categoryId,omitempty"`
	CreatedByID   uuid.UUID      `json:"createdById"`
	AssignedToID  *uuid.UUID     `json:"assignedToId,omitempty"`
	ParentTaskID  *uuid.UUID     `json:"parentTaskId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Creator       *UserView      `json:"creator,omitempty"`
	Assignee      *UserView      `json:"assignee,omitempty"`
	Category      *CategoryView  `json:"category,omitempty"`
	ParentTask    *TaskView      `json:"parentTask,omitempty"`
	Subtasks      []*TaskView    `json:"subtasks,omitempty"`
	Comments      []*CommentView `json:"comments,omitempty"`
}

// CategoryView is the public representation of a category.
type CategoryView struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Color       string              `json:"color"`
	Icon        string              `json:"icon,omitempty"`
	IsActive    bool                `json:"isActive"`
	UserID      uuid.UUID           `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	TaskCounts  *CategoryCountsView `json:"taskCounts,omitempty"`
}

// CategoryCountsView breaks a category's task tally down by status.
type CategoryCountsView struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"inProgress"`
	NotStarted int64 `json:"notStarted"`
}

// CommentView is the public representation of a comment.
type CommentView struct {
	ID              uuid.UUID      `json:"id"`
	Content         string         `json:"content"`
	TaskID          uuid.UUID      `json:"taskId"`
	UserID          uuid.UUID      `json:"userId"`
	ParentCommentID *uuid.UUID     `json:"parentCommentId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	User            *UserView      `json:"user,omitempty"`
	Replies         []*CommentView `json:"replies,omitempty"`
}

// NotificationView is the public representation of a notification.
type NotificationView struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	CommentID *uuid.UUID `json:"commentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ActivityView is the public representation of an audit record.
type ActivityView struct {
	ID           uuid.UUID      `json:"id"`
	Action       string         `json:"action"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   *uuid.UUID     `json:"resourceId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PaginationView is the page descriptor attached to listings.
type PaginationView struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func toUserView(u *entity.User) *UserView {
	if u == nil {
		return nil
	}

	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserViews(users []*entity.User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}

	return views
}

func toTaskView(t *entity.Task) *TaskView {
	if t == nil {
		return nil
	}

	view := &TaskView{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		DueDate:       t.DueDate,
		CompletedAt:   t.CompletedAt,
		EstimatedTime: t.EstimatedTime,
		Attachments:   t.Attachments,
		Recurrence:    string(t.Recurrence),
		CategoryID:    t.CategoryID,
		CreatedByID:   t.CreatedByID,
		AssignedToID:  t.AssignedToID,
		ParentTaskID:  t.ParentTaskID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Creator:       toUserView(t.Creator),
		Assignee:      toUserView(t.Assignee),
		Category:      toCategoryView(t.Category),
		ParentTask:    toTaskView(t.ParentTask),
	}
	for _, sub := range t.Subtasks {
		view.Subtasks = append(view.Subtasks, toTaskView(sub))
	}
	for _, comment := range t.Comments {
		view.Comments = append(view.Comments, toCommentView(comment))
	}

	return view
}

func toTaskViews(tasks []*entity.Task) []*TaskView {
	views := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, toTaskView(t))
	}

	return views
}

func toCategoryView(c *entity.Category) *CategoryView {
	if c == nil {
		return nil
	}

	return &CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		IsActive:    c.IsActive,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCommentView(c *entity.Comment) *CommentView {
	if c == nil {
		return nil
	}

	view := &CommentView{
		ID:              c.ID,
		Content:         c.Content,
		TaskID:          c.TaskID,
		UserID:          c.UserID,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		User:            toUserView(c.User),
	}
	for _, reply := range c.Replies {
		view.Replies = append(view.Replies, toCommentView(reply))
	}

	return view
}

func toCommentViews(comments []*entity.Comment) []*CommentView {
	views := make([]*CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(c))
	}

	return views
}

func toNotificationView(n *entity.Notification) *NotificationView {
	if n == nil {
		return nil
	}

	return &NotificationView{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		TaskID:    n.TaskID,
		CommentID: n.CommentID,
		CreatedAt: n.CreatedAt,
	}
}

func toActivityView(a *entity.Activity) *ActivityView {
	if a == nil {
		return nil
	}

	return &ActivityView{
		ID:           a.ID,
		Action:       a.Action,
		Details:      a.Details,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		CreatedAt:    a.CreatedAt,
	}
}

func toPaginationView(p usecase.Pagination) PaginationView {
	return PaginationView{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
