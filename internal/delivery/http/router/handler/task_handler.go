package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task endpoints.
type TaskHandler struct {
	uc usecase.TaskUsecase
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

type createTaskRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"dueDate"`
	EstimatedTime *int       `json:"estimatedTime"`
	Attachments   []string   `json:"attachments"`
	Recurrence    string     `json:"recurrence"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	AssignedToID  *uuid.UUID `json:"assignedToId"`
	ParentTaskID  *uuid.UUID `json:"parentTaskId"`
}

type updateTaskRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	Priority      *string    `json:"priority"`
	DueDate       *time.Time `json:"dueDate"`
	EstimatedTime *int       `json:"estimatedTime"`
	Attachments   []string   `json:"attachments"`
	Recurrence    *string    `json:"recurrence"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	AssignedToID  *uuid.UUID `json:"assignedToId"`
	ParentTaskID  *uuid.UUID `json:"parentTaskId"`
}

type taskPageResponse struct {
	Tasks      []*TaskView    `json:"tasks"`
	Pagination PaginationView `json:"pagination"`
}

// Create handles task creation.
func (h *TaskHandler) Create(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        entity.TaskStatus(req.Status),
		Priority:      entity.TaskPriority(req.Priority),
		DueDate:       req.DueDate,
		EstimatedTime: req.EstimatedTime,
		Attachments:   req.Attachments,
		Recurrence:    entity.TaskRecurrence(req.Recurrence),
		CategoryID:    req.CategoryID,
		AssignedToID:  req.AssignedToID,
		ParentTaskID:  req.ParentTaskID,
		Meta:          requestMeta(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskView(task), "Task created successfully")
}

// List handles the filtered, sorted, paginated task listing.
func (h *TaskHandler) List(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	categoryID, err := queryUUID(c, "categoryId")
	if err != nil {
		return errors.WithStack(err)
	}
	assignedToID, err := queryUUID(c, "assignedToId")
	if err != nil {
		return errors.WithStack(err)
	}
	createdByID, err := queryUUID(c, "createdById")
	if err != nil {
		return errors.WithStack(err)
	}
	dueDateFrom, err := queryTime(c, "dueDateFrom")
	if err != nil {
		return errors.WithStack(err)
	}
	dueDateTo, err := queryTime(c, "dueDateTo")
	if err != nil {
		return errors.WithStack(err)
	}

	page, err := h.uc.List(c.Request().Context(), actor, usecase.ListTasksInput{
		Status:       entity.TaskStatus(c.QueryParam("status")),
		Priority:     entity.TaskPriority(c.QueryParam("priority")),
		CategoryID:   categoryID,
		AssignedToID: assignedToID,
		CreatedByID:  createdByID,
		DueDateFrom:  dueDateFrom,
		DueDateTo:    dueDateTo,
		Search:       c.QueryParam("search"),
		SortBy:       c.QueryParam("sortBy"),
		SortOrder:    c.QueryParam("sortOrder"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 10),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, taskPageResponse{
		Tasks:      toTaskViews(page.Tasks),
		Pagination: toPaginationView(page.Pagination),
	}, "")
}

// Get handles fetching a single task with its associations.
func (h *TaskHandler) Get(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	task, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "")
}

// Update handles a partial task update. A JSON null clears the nullable
// relation fields; an absent field leaves them unchanged.
func (h *TaskHandler) Update(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	var req updateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	input := usecase.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		ClearDueDate:  explicitNull(raw, "dueDate"),
		EstimatedTime: req.EstimatedTime,
		Attachments:   req.Attachments,
		CategoryID:    req.CategoryID,
		ClearCategory: explicitNull(raw, "categoryId"),
		AssignedToID:  req.AssignedToID,
		ClearAssignee: explicitNull(raw, "assignedToId"),
		ParentTaskID:  req.ParentTaskID,
		ClearParent:   explicitNull(raw, "parentTaskId"),
		Meta:          requestMeta(c),
	}
	if req.Status != nil {
		status := entity.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := entity.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Recurrence != nil {
		recurrence := entity.TaskRecurrence(*req.Recurrence)
		input.Recurrence = &recurrence
	}

	task, err := h.uc.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "Task updated successfully")
}

// Delete handles task deletion.
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return domainerrors.ErrAuthRequired
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id, requestMeta(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Task deleted successfully")
}

// explicitNull reports whether the field was present in the body as a JSON
// null, as opposed to being absent entirely.
func explicitNull(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]

	return ok && string(v) == "null"
}
