package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// TaskPriority ranks tasks for the owner.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// IsValid reports whether p is one of the known priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// OverdueAfter is how long an unfinished task may sit before it counts as overdue.
const OverdueAfter = 7 * 24 * time.Hour

// Task is a unit of work owned by exactly one user.
// UserID is fixed at creation; every read and write is checked against it.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	UserID      uuid.UUID
	CategoryID  *uuid.UUID // nil when uncategorized
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Loaded alongside the task by read queries; nil when not loaded or absent.
	Owner    *User
	Category *Category
}

// IsOwnedBy reports whether userID owns the task.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// IsCompleted reports whether the task is done.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusDone
}

// TaskFilter narrows an owner's task list. Zero values mean "no constraint".
type TaskFilter struct {
	Status      *TaskStatus
	Priority    *TaskPriority
	CategoryID  *uuid.UUID
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// Default paging for TaskFilter.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (f *TaskFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Offset is the row offset for the current page.
func (f *TaskFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// TaskStats summarizes one owner's tasks.
type TaskStats struct {
	Total          int64
	Completed      int64
	Pending        int64
	CompletionRate float64 // percentage, 0 when there are no tasks
}

// NewTaskStats derives pending and completion rate from the two counts.
func NewTaskStats(total, completed int64) TaskStats {
	stats := TaskStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}

	return stats
}
