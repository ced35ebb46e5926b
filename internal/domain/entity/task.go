package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if the TaskStatus is a valid value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the TaskPriority is a valid value.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// TaskRecurrence describes how a task repeats.
type TaskRecurrence string

const (
	TaskRecurrenceNone    TaskRecurrence = "none"
	TaskRecurrenceDaily   TaskRecurrence = "daily"
	TaskRecurrenceWeekly  TaskRecurrence = "weekly"
	TaskRecurrenceMonthly TaskRecurrence = "monthly"
)

// Task is a unit of work created by one user and optionally assigned to
// another. Tasks may nest one level deep through ParentTaskID.
type Task struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Status        TaskStatus
	Priority      TaskPriority
	DueDate       *time.Time
	CompletedAt   *time.Time
	EstimatedTime *int // Minutes.
	Attachments   []string
	Recurrence    TaskRecurrence
	CategoryID    *uuid.UUID
	CreatedByID   uuid.UUID
	AssignedToID  *uuid.UUID
	ParentTaskID  *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Associations, populated on demand by the persistence layer.
	Creator    *User
	Assignee   *User
	Category   *Category
	ParentTask *Task
	Subtasks   []*Task
	Comments   []*Comment
}
