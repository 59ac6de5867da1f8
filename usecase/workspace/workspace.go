// Package workspace keeps the client's snapshot of projects and tasks in
// step with the remote store. Every mutation is written remotely first, then
// the whole snapshot is fetched again and swapped in atomically.
package workspace

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase/board"
)

// Confirmer asks the user to confirm a destructive operation.
type Confirmer func(prompt string) bool

// Config tunes the engine.
type Config struct {
	// FetchConcurrency bounds the per-project task fetches of one load.
	FetchConcurrency int
	// Confirm is consulted before deletes. Nil means the caller already
	// confirmed.
	Confirm Confirmer
}

// Engine owns the current snapshot.
type Engine struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time

	snapshot atomic.Pointer[domain.Snapshot]
}

func New(projects repository.ProjectRepository, tasks repository.TaskRepository, logger *zap.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 8
	}
	e := &Engine{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
	e.snapshot.Store(&domain.Snapshot{})
	return e
}

// Snapshot returns the latest completed snapshot. It is never nil and must
// not be modified.
func (e *Engine) Snapshot() *domain.Snapshot {
	return e.snapshot.Load()
}

// LoadAll fetches every project and then each project's tasks concurrently,
// publishing the result as one snapshot. A failed task fetch leaves that
// project with no tasks; a failed project fetch publishes an empty snapshot
// carrying the error and returns it. A load cut short by ctx publishes
// nothing.
func (e *Engine) LoadAll(ctx context.Context) error {
	started := e.now()

	projects, err := e.projects.List(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return e.cancelled(ctxErr)
	}
	if err != nil {
		fetchErr := domain.FetchError("failed to load projects", err)
		e.logger.Error("project fetch failed", zap.Error(err))
		e.snapshot.Store(&domain.Snapshot{
			Projects: []domain.Project{},
			Tasks:    []domain.Task{},
			LoadedAt: e.now(),
			Err:      fetchErr,
		})
		return fetchErr
	}

	perProject := make([][]domain.Task, len(projects))
	var g errgroup.Group
	g.SetLimit(e.cfg.FetchConcurrency)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			perProject[i] = e.fetchTasks(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return e.cancelled(err)
	}

	tasks := make([]domain.Task, 0)
	for _, list := range perProject {
		tasks = append(tasks, list...)
	}

	e.snapshot.Store(&domain.Snapshot{
		Projects: projects,
		Tasks:    tasks,
		LoadedAt: e.now(),
	})
	e.logger.Debug("snapshot loaded",
		zap.Int("projects", len(projects)),
		zap.Int("tasks", len(tasks)),
		zap.Duration("elapsed", e.now().Sub(started)))
	return nil
}

func (e *Engine) cancelled(err error) error {
	e.logger.Warn("load cancelled, keeping previous snapshot", zap.Error(err))
	return domain.FetchError("load cancelled", err)
}

// fetchTasks never fails: errors are logged and yield an empty list.
func (e *Engine) fetchTasks(ctx context.Context, p domain.Project) []domain.Task {
	list, err := e.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		e.logger.Warn("task fetch failed, treating project as empty",
			zap.String("project_id", p.ID.String()),
			zap.Error(err))
		return nil
	}
	// tasks belong to the project they were listed under
	for i := range list {
		list[i].ProjectID = p.ID
	}
	return list
}

// Project returns a project of the current snapshot.
func (e *Engine) Project(id domain.ID) (domain.Project, bool) {
	return e.Snapshot().Project(id)
}

// Task returns a task of the current snapshot.
func (e *Engine) Task(id domain.ID) (domain.Task, bool) {
	return e.Snapshot().Task(id)
}

func (e *Engine) CreateProject(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrEmptyProjectName
	}
	return e.mutate(ctx, "create project", func() error {
		_, err := e.projects.Create(ctx, name)
		return err
	})
}

// DeleteProject removes a project and, remotely, all of its tasks.
func (e *Engine) DeleteProject(ctx context.Context, id domain.ID) error {
	if !e.confirm("Are you sure? This will delete the project and all its tasks.") {
		return domain.ErrNotConfirmed
	}
	return e.mutate(ctx, "delete project", func() error {
		return e.projects.Delete(ctx, id)
	})
}

// CreateTask adds a task to a project. Priority defaults to Low and status
// to To Do.
func (e *Engine) CreateTask(ctx context.Context, projectID domain.ID, draft domain.TaskDraft) error {
	task, err := taskFromDraft(projectID, draft)
	if err != nil {
		return err
	}
	return e.mutate(ctx, "create task", func() error {
		_, err := e.tasks.Create(ctx, projectID, &task)
		return err
	})
}

// UpdateTask writes the full record of task.
func (e *Engine) UpdateTask(ctx context.Context, task domain.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return domain.ErrEmptyTaskTitle
	}
	if !task.Status.Valid() {
		return domain.ValidationError("unknown task status")
	}
	if !task.Priority.Valid() {
		return domain.ValidationError("unknown task priority")
	}
	return e.mutate(ctx, "update task", func() error {
		_, err := e.tasks.Update(ctx, &task)
		return err
	})
}

func (e *Engine) DeleteTask(ctx context.Context, id domain.ID) error {
	if !e.confirm("Delete this task?") {
		return domain.ErrNotConfirmed
	}
	return e.mutate(ctx, "delete task", func() error {
		return e.tasks.Delete(ctx, id)
	})
}

// MoveTask changes the workflow status of task. Moving to the current status
// is a valid no-op write.
func (e *Engine) MoveTask(ctx context.Context, task domain.Task, target domain.Status) error {
	moved, err := board.Transition(task, target)
	if err != nil {
		return err
	}
	return e.mutate(ctx, "move task", func() error {
		_, err := e.tasks.Update(ctx, &moved)
		return err
	})
}

// mutate runs write once and, on success, reloads everything. A failed write
// leaves the snapshot untouched.
func (e *Engine) mutate(ctx context.Context, op string, write func() error) error {
	if err := write(); err != nil {
		e.logger.Error("mutation failed", zap.String("operation", op), zap.Error(err))
		reason := domain.ServerReason(err)
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			reason = domain.Reason(err)
		}
		return domain.MutationError(reason, err)
	}
	return e.LoadAll(ctx)
}

func (e *Engine) confirm(prompt string) bool {
	if e.cfg.Confirm == nil {
		return true
	}
	return e.cfg.Confirm(prompt)
}

func taskFromDraft(projectID domain.ID, draft domain.TaskDraft) (domain.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return domain.Task{}, domain.ErrEmptyTaskTitle
	}
	if projectID.IsZero() {
		return domain.Task{}, domain.ValidationError("project is required")
	}
	priority := draft.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	if !priority.Valid() {
		return domain.Task{}, domain.ValidationError("unknown task priority")
	}
	status := draft.Status
	if status == "" {
		status = domain.StatusToDo
	}
	if !status.Valid() {
		return domain.Task{}, domain.ValidationError("unknown task status")
	}
	due, err := domain.NormalizeDate(draft.DueDate)
	if err != nil {
		return domain.Task{}, domain.ValidationError("due date must be YYYY-MM-DD")
	}
	return domain.Task{
		ProjectID:   projectID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    priority,
		Status:      status,
		DueDate:     due,
	}, nil
}
