package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every workflow state in board order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// ParseStatus maps raw input onto a Status. Matching ignores case and
// surrounding whitespace, and accepts the snake/kebab forms used on the
// command line ("in_progress", "in-progress", "todo").
func ParseStatus(value string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch key {
	case "to do", "todo":
		return StatusToDo, nil
	case "in progress", "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrInvalidStatus.Code, ErrInvalidStatus.Message, err)
	}
	if !Status(raw).Valid() {
		return WrapError(ErrCodeInvalid, fmt.Sprintf("unknown task status %q", raw), ErrInvalidStatus)
	}
	*s = Status(raw)
	return nil
}

// Priority represents task priority level.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps raw input onto a Priority, ignoring case.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", ErrInvalidPriority
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrInvalidPriority.Code, ErrInvalidPriority.Message, err)
	}
	if !Priority(raw).Valid() {
		return WrapError(ErrCodeInvalid, fmt.Sprintf("unknown task priority %q", raw), ErrInvalidPriority)
	}
	*p = Priority(raw)
	return nil
}

// Task is a unit of work inside a project.
type Task struct {
	ID          ID       `json:"id" yaml:"id"`
	ProjectID   ID       `json:"project_id" yaml:"project_id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Status      Status   `json:"status" yaml:"status"`
	DueDate     *Date    `json:"due_date" yaml:"due_date"`
}

// UnmarshalJSON accepts a null, empty, bare-date or date-time due_date and
// a null description.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var wire struct {
		alias
		Description *string `json:"description"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Task(wire.alias)
	t.Description = ""
	if wire.Description != nil {
		t.Description = *wire.Description
	}
	t.DueDate = nil
	if wire.DueDate != nil {
		due, err := NormalizeDate(*wire.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = due
	}
	return nil
}

// IsOverdue reports whether the task is past its due day as of now. Done
// tasks are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(DateOf(now))
}

// IsDone reports whether the task reached the Done state.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// TaskDraft carries user input for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     string
}
