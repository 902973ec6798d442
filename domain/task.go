package domain

import "time"

// TaskStatus is the lifecycle state of a task. The string values are the
// wire and storage representation.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inProgress"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
)

// TaskStatuses lists every valid status value.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusArchived}

// ParseTaskStatus maps a raw string onto a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	status := TaskStatus(raw)
	return status, status.Valid()
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusArchived:
		return true
	}
	return false
}

// IsTerminal reports whether the status forbids any further change.
// Archived tasks are frozen entirely, including their status.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusArchived
}

// Task represents a user-owned unit of work. UserID and CreatedAt are set
// once at creation and never change afterwards.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t *Task) IsArchived() bool {
	return t != nil && t.Status.IsTerminal()
}
