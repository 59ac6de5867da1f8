package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

func task(id, project string, status domain.Status) domain.Task {
	return domain.Task{
		ID:        domain.ID(id),
		ProjectID: domain.ID(project),
		Title:     "task " + id,
		Priority:  domain.PriorityLow,
		Status:    status,
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{1, 2, 50},
		{2, 3, 67},
		{1, 8, 13},
		{3, 3, 100},
		{0, 5, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percent(tc.done, tc.total), "%d/%d", tc.done, tc.total)
	}
}

func TestTransition(t *testing.T) {
	due := domain.Date{Year: 2026, Month: 2, Day: 22}
	original := task("1", "p", domain.StatusDone)
	original.DueDate = &due
	original.Description = "keep me"

	t.Run("any status to any status", func(t *testing.T) {
		for _, from := range domain.Statuses {
			for _, to := range domain.Statuses {
				assert.True(t, IsAllowedTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("done moves back and keeps every field", func(t *testing.T) {
		moved, err := Transition(original, domain.StatusToDo)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusToDo, moved.Status)
		assert.Equal(t, "keep me", moved.Description)
		require.NotNil(t, moved.DueDate)
		assert.Equal(t, "2026-02-22", moved.DueDate.String())
		assert.NotSame(t, original.DueDate, moved.DueDate)
		assert.Equal(t, domain.StatusDone, original.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		once, err := Transition(original, domain.StatusInProgress)
		require.NoError(t, err)
		twice, err := Transition(once, domain.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := Transition(original, domain.Status("Blocked"))
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []domain.Status{domain.StatusInProgress, domain.StatusDone}, Targets(domain.StatusToDo))
	assert.Equal(t, []domain.Status{domain.StatusToDo, domain.StatusInProgress}, Targets(domain.StatusDone))
}

func TestPartition(t *testing.T) {
	tasks := []domain.Task{
		task("1", "p", domain.StatusDone),
		task("2", "p", domain.StatusToDo),
		task("3", "p", domain.Status("Archived")),
		task("4", "p", domain.StatusToDo),
		task("5", "p", domain.StatusInProgress),
	}

	columns := Partition(tasks)
	require.Len(t, columns, 3)
	assert.Equal(t, domain.StatusToDo, columns[0].Status)
	assert.Equal(t, []domain.ID{"2", "4"}, ids(columns[0].Tasks))
	assert.Equal(t, []domain.ID{"5"}, ids(columns[1].Tasks))
	assert.Equal(t, []domain.ID{"1"}, ids(columns[2].Tasks))

	empty := Partition(nil)
	require.Len(t, empty, 3)
	for _, c := range empty {
		assert.NotNil(t, c.Tasks)
		assert.Empty(t, c.Tasks)
	}
}

func TestBuildAndSummary(t *testing.T) {
	snapshot := &domain.Snapshot{
		Projects: []domain.Project{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}, {ID: "c", Name: "Empty"}},
		Tasks: []domain.Task{
			task("1", "a", domain.StatusDone),
			task("2", "a", domain.StatusToDo),
			task("3", "a", domain.StatusInProgress),
			task("4", "b", domain.StatusDone),
			task("5", "b", domain.StatusToDo),
			task("6", "gone", domain.StatusDone),
		},
	}

	b, ok := Build(snapshot, "a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", b.Project.Name)
	assert.Equal(t, Progress{ProjectID: "a", Name: "Alpha", Total: 3, Done: 1, Percent: 33}, b.Progress)

	_, ok = Build(snapshot, "gone")
	assert.False(t, ok)

	p, ok := ProjectProgress(snapshot, "b")
	require.True(t, ok)
	assert.Equal(t, 50, p.Percent)

	p, ok = ProjectProgress(snapshot, "c")
	require.True(t, ok)
	assert.Equal(t, 0, p.Percent)
	assert.Equal(t, 0, p.Total)

	summary := Summarize(snapshot)
	assert.Equal(t, 3, summary.TotalProjects)
	assert.Equal(t, 5, summary.TotalTasks)
	assert.Equal(t, 2, summary.CompletedTasks)
	require.Len(t, summary.Projects, 3)
	assert.Equal(t, "Beta", summary.Projects[1].Name)
}

func TestProgressFollowsSnapshot(t *testing.T) {
	before := &domain.Snapshot{
		Projects: []domain.Project{{ID: "a"}},
		Tasks:    []domain.Task{task("1", "a", domain.StatusToDo), task("2", "a", domain.StatusToDo)},
	}
	p, _ := ProjectProgress(before, "a")
	assert.Equal(t, 0, p.Percent)

	after := &domain.Snapshot{
		Projects: before.Projects,
		Tasks:    []domain.Task{task("1", "a", domain.StatusDone), task("2", "a", domain.StatusToDo)},
	}
	p, _ = ProjectProgress(after, "a")
	assert.Equal(t, 50, p.Percent)
}

func ids(tasks []domain.Task) []domain.ID {
	out := make([]domain.ID, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
