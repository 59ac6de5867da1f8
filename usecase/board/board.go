// Package board derives the workflow board and progress figures from a
// snapshot. Everything here is a pure function of its inputs and is
// recomputed on every call.
package board

import (
	"fmt"

	"github.com/fastygo/taskflow/domain"
)

// IsAllowedTransition reports whether a task may move from one status to
// another. The workflow is fully connected: any valid status may move to any
// valid status, itself included, and no status is terminal.
func IsAllowedTransition(from, to domain.Status) bool {
	return from.Valid() && to.Valid()
}

// Targets returns the statuses a task in status can be moved to, other than
// status itself, in board order.
func Targets(status domain.Status) []domain.Status {
	out := make([]domain.Status, 0, len(domain.Statuses)-1)
	for _, s := range domain.Statuses {
		if s != status {
			out = append(out, s)
		}
	}
	return out
}

// Transition returns the full record to write when moving task to target.
// The due date is re-normalized to a bare date because the move goes through
// the full-record update path. Moving to the current status is valid.
func Transition(task domain.Task, target domain.Status) (domain.Task, error) {
	if !target.Valid() {
		return domain.Task{}, domain.ValidationError(fmt.Sprintf("cannot move task to %q", target))
	}
	if task.Status.Valid() && !IsAllowedTransition(task.Status, target) {
		return domain.Task{}, domain.ValidationError(fmt.Sprintf("cannot move task from %q to %q", task.Status, target))
	}

	moved := task
	moved.Status = target
	if task.DueDate != nil {
		due := domain.Date{Year: task.DueDate.Year, Month: task.DueDate.Month, Day: task.DueDate.Day}
		moved.DueDate = &due
	}
	return moved, nil
}

// Column is one status bucket of the board.
type Column struct {
	Status domain.Status `json:"status" yaml:"status"`
	Tasks  []domain.Task `json:"tasks" yaml:"tasks"`
}

// Board is a project's tasks split into the three workflow columns.
type Board struct {
	Project  domain.Project `json:"project" yaml:"project"`
	Columns  []Column       `json:"columns" yaml:"columns"`
	Progress Progress       `json:"progress" yaml:"progress"`
}

// Partition splits tasks into exactly three columns in board order, keeping
// load order inside each column. Tasks with an unrecognized status land in no
// column.
func Partition(tasks []domain.Task) []Column {
	columns := make([]Column, len(domain.Statuses))
	index := make(map[domain.Status]int, len(domain.Statuses))
	for i, s := range domain.Statuses {
		columns[i] = Column{Status: s, Tasks: []domain.Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			columns[i].Tasks = append(columns[i].Tasks, t)
		}
	}
	return columns
}

// Build derives the board of one project. ok is false when the project is
// not part of the snapshot.
func Build(snapshot *domain.Snapshot, projectID domain.ID) (Board, bool) {
	project, ok := snapshot.Project(projectID)
	if !ok {
		return Board{}, false
	}
	tasks := snapshot.TasksFor(projectID)
	return Board{
		Project:  project,
		Columns:  Partition(tasks),
		Progress: progressOf(project, tasks),
	}, true
}
