package workspace_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/stub"
	"github.com/fastygo/taskflow/repository/remote"
	"github.com/fastygo/taskflow/usecase/workspace"
)

type staticToken string

func (s staticToken) Credential() (string, error) { return string(s), nil }

type harness struct {
	stub   *stub.InMemory
	engine *workspace.Engine
}

func newHarness(t *testing.T, opts stub.Options, cfg workspace.Config) *harness {
	t.Helper()
	srv := stub.StartInMemory(opts, nil)
	t.Cleanup(func() { _ = srv.Close() })

	ctx := context.Background()
	client := remote.NewClient(srv.Client, srv.BaseURL, 2*time.Second, nil)
	auth := remote.NewAuthRepository(client)
	require.NoError(t, auth.Register(ctx, "Ada", "ada@example.com", "secret"))
	identity, err := auth.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	authed := client.WithCredentials(staticToken(identity.Token))
	engine := workspace.New(remote.NewProjectRepository(authed), remote.NewTaskRepository(authed), nil, cfg)
	return &harness{stub: srv, engine: engine}
}

func (h *harness) project(t *testing.T, name string) domain.Project {
	t.Helper()
	require.NoError(t, h.engine.CreateProject(context.Background(), name))
	for _, p := range h.engine.Snapshot().Projects {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("project %q not in snapshot", name)
	return domain.Project{}
}

func (h *harness) task(t *testing.T, projectID domain.ID, title string) domain.Task {
	t.Helper()
	require.NoError(t, h.engine.CreateTask(context.Background(), projectID, domain.TaskDraft{Title: title}))
	for _, task := range h.engine.Snapshot().TasksFor(projectID) {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("task %q not in snapshot", title)
	return domain.Task{}
}

func TestSnapshotStartsEmpty(t *testing.T) {
	engine := workspace.New(nil, nil, nil, workspace.Config{})
	snap := engine.Snapshot()
	require.NotNil(t, snap)
	assert.False(t, snap.Loaded())
	assert.Empty(t, snap.Projects)
}

func TestLoadAllMergesEveryProject(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{FetchConcurrency: 2})
	alpha := h.project(t, "Alpha")
	beta := h.project(t, "Beta")
	gamma := h.project(t, "Gamma")
	h.task(t, alpha.ID, "a1")
	h.task(t, alpha.ID, "a2")
	h.task(t, gamma.ID, "g1")

	require.NoError(t, h.engine.LoadAll(context.Background()))
	snap := h.engine.Snapshot()
	assert.True(t, snap.Loaded())
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Projects, 3)
	assert.Len(t, snap.Tasks, 3)
	assert.Len(t, snap.TasksFor(alpha.ID), 2)
	assert.Empty(t, snap.TasksFor(beta.ID))
	for _, task := range snap.Tasks {
		_, ok := snap.Project(task.ProjectID)
		assert.True(t, ok, "task %s has unknown project %s", task.ID, task.ProjectID)
	}
}

func TestLoadAllContainsTaskFetchFailure(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	a := h.project(t, "A")
	b := h.project(t, "B")
	c := h.project(t, "C")
	for _, p := range []domain.Project{a, b, c} {
		h.task(t, p.ID, "in "+p.Name)
	}

	h.stub.Store.FailTaskList(b.ID, http.StatusInternalServerError)
	require.NoError(t, h.engine.LoadAll(context.Background()))

	snap := h.engine.Snapshot()
	assert.Len(t, snap.Projects, 3)
	assert.Len(t, snap.TasksFor(a.ID), 1)
	assert.Empty(t, snap.TasksFor(b.ID))
	assert.Len(t, snap.TasksFor(c.ID), 1)
}

func TestLoadAllProjectFetchFailure(t *testing.T) {
	srv := stub.StartInMemory(stub.Options{}, nil)
	t.Cleanup(func() { _ = srv.Close() })
	client := remote.NewClient(srv.Client, srv.BaseURL, time.Second, nil).WithCredentials(staticToken("not-a-token"))
	engine := workspace.New(remote.NewProjectRepository(client), remote.NewTaskRepository(client), nil, workspace.Config{})

	err := engine.LoadAll(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeFetch))

	snap := engine.Snapshot()
	assert.True(t, snap.Loaded())
	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, err, snap.Err)
}

func TestCreateTaskRoundTrip(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "Launch")

	err := h.engine.CreateTask(context.Background(), p.ID, domain.TaskDraft{
		Title:       "Ship it",
		Description: "final checks",
		Priority:    domain.PriorityHigh,
		Status:      domain.StatusDone,
		DueDate:     "2025-06-01",
	})
	require.NoError(t, err)

	tasks := h.engine.Snapshot().TasksFor(p.ID)
	require.Len(t, tasks, 1)
	got := tasks[0]
	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, "final checks", got.Description)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, domain.StatusDone, got.Status)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-06-01", got.DueDate.String())
	assert.Equal(t, p.ID, got.ProjectID)
	assert.False(t, got.ID.IsZero())
}

func TestCreateTaskDefaults(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "Defaults")
	got := h.task(t, p.ID, "Plain")

	assert.Equal(t, domain.PriorityLow, got.Priority)
	assert.Equal(t, domain.StatusToDo, got.Status)
	assert.Nil(t, got.DueDate)
}

func TestValidationMakesNoRequest(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "P")
	ctx := context.Background()
	before := h.stub.Store.Requests()

	err := h.engine.CreateTask(ctx, p.ID, domain.TaskDraft{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	err = h.engine.CreateTask(ctx, p.ID, domain.TaskDraft{Title: "x", DueDate: "June 1st"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	err = h.engine.CreateProject(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyProjectName)

	assert.Equal(t, before, h.stub.Store.Requests())
	assert.Equal(t, 0, h.stub.Store.TaskCount())
}

func TestDeleteProjectCascades(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	keep := h.project(t, "Keep")
	drop := h.project(t, "Drop")
	h.task(t, keep.ID, "k")
	h.task(t, drop.ID, "d1")
	h.task(t, drop.ID, "d2")

	require.NoError(t, h.engine.DeleteProject(context.Background(), drop.ID))

	snap := h.engine.Snapshot()
	_, ok := snap.Project(drop.ID)
	assert.False(t, ok)
	assert.Nil(t, snap.TasksFor(drop.ID))
	for _, task := range snap.Tasks {
		assert.NotEqual(t, drop.ID, task.ProjectID)
	}
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, 1, h.stub.Store.TaskCount())
}

func TestDeclinedDeleteMakesNoRequest(t *testing.T) {
	var prompts []string
	h := newHarness(t, stub.Options{}, workspace.Config{Confirm: func(prompt string) bool {
		prompts = append(prompts, prompt)
		return false
	}})
	p := h.project(t, "Precious")
	task := h.task(t, p.ID, "t")
	before := h.stub.Store.Requests()

	assert.ErrorIs(t, h.engine.DeleteProject(context.Background(), p.ID), domain.ErrNotConfirmed)
	assert.ErrorIs(t, h.engine.DeleteTask(context.Background(), task.ID), domain.ErrNotConfirmed)
	assert.Len(t, prompts, 2)
	assert.Equal(t, before, h.stub.Store.Requests())

	_, ok := h.engine.Project(p.ID)
	assert.True(t, ok)
	_, ok = h.engine.Task(task.ID)
	assert.True(t, ok)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "P")
	a := h.task(t, p.ID, "a")
	b := h.task(t, p.ID, "b")

	require.NoError(t, h.engine.DeleteTask(context.Background(), a.ID))
	_, ok := h.engine.Task(a.ID)
	assert.False(t, ok)
	_, ok = h.engine.Task(b.ID)
	assert.True(t, ok)
}

func TestMoveTask(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "P")
	task := h.task(t, p.ID, "Move me")
	ctx := context.Background()

	require.NoError(t, h.engine.MoveTask(ctx, task, domain.StatusInProgress))
	moved, ok := h.engine.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, moved.Status)
	assert.Equal(t, task.Title, moved.Title)
	assert.Equal(t, task.Priority, moved.Priority)

	require.NoError(t, h.engine.MoveTask(ctx, moved, domain.StatusDone))
	once, _ := h.engine.Task(task.ID)
	require.NoError(t, h.engine.MoveTask(ctx, once, domain.StatusDone))
	twice, _ := h.engine.Task(task.ID)
	assert.Equal(t, once, twice)

	err := h.engine.MoveTask(ctx, twice, domain.Status("Blocked"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestUpdateTask(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "P")
	task := h.task(t, p.ID, "Draft")
	ctx := context.Background()

	task.Title = "Final"
	task.Priority = domain.PriorityMedium
	due, err := domain.NormalizeDate("2030-12-31")
	require.NoError(t, err)
	task.DueDate = due
	require.NoError(t, h.engine.UpdateTask(ctx, task))

	got, ok := h.engine.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2030-12-31", got.DueDate.String())

	task.Title = ""
	assert.ErrorIs(t, h.engine.UpdateTask(ctx, task), domain.ErrEmptyTaskTitle)
}

func TestFailedMutationKeepsSnapshot(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "P")
	task := h.task(t, p.ID, "t")
	before := h.engine.Snapshot()

	h.stub.Store.FailNextWrite(http.StatusInternalServerError, "database unavailable")
	err := h.engine.MoveTask(context.Background(), task, domain.StatusDone)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeMutation))
	assert.Equal(t, "database unavailable", domain.Reason(err))

	assert.Same(t, before, h.engine.Snapshot())
	got, _ := h.engine.Task(task.ID)
	assert.Equal(t, domain.StatusToDo, got.Status)
}

func TestFailedMutationWithoutMessage(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	h.stub.Store.FailNextWrite(http.StatusBadGateway, "")

	err := h.engine.CreateProject(context.Background(), "Nope")
	require.Error(t, err)
	assert.Equal(t, "the change could not be saved", domain.Reason(err))
}

func TestWrappedCollections(t *testing.T) {
	h := newHarness(t, stub.Options{WrapCollections: true}, workspace.Config{})
	p := h.project(t, "Wrapped")
	h.task(t, p.ID, "one")
	h.task(t, p.ID, "two")

	require.NoError(t, h.engine.LoadAll(context.Background()))
	snap := h.engine.Snapshot()
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.TasksFor(p.ID), 2)
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	for _, name := range []string{"A", "B", "C"} {
		p := h.project(t, name)
		h.task(t, p.ID, name+"-1")
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.engine.LoadAll(ctx))
		}()
		go func() {
			defer wg.Done()
			snap := h.engine.Snapshot()
			assert.Len(t, snap.Projects, 3)
			assert.Len(t, snap.Tasks, 3)
		}()
	}
	wg.Wait()
}

func TestCreateThenMoveKeepsDueDate(t *testing.T) {
	h := newHarness(t, stub.Options{}, workspace.Config{})
	p := h.project(t, "Release")
	ctx := context.Background()

	require.NoError(t, h.engine.CreateTask(ctx, p.ID, domain.TaskDraft{
		Title:    "Tag build",
		Priority: domain.PriorityHigh,
		DueDate:  "2025-06-01",
	}))
	created := h.engine.Snapshot().TasksFor(p.ID)[0]
	require.NoError(t, h.engine.MoveTask(ctx, created, domain.StatusDone))

	require.NoError(t, h.engine.LoadAll(ctx))
	got, ok := h.engine.Task(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-06-01", got.DueDate.String())
}
