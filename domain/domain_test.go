package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2025-06-01":                "2025-06-01",
		" 2025-06-01 ":              "2025-06-01",
		"2025-06-01T00:00:00.000Z":  "2025-06-01",
		"2025-06-01T23:30:00-05:00": "2025-06-01",
		"2025-06-01 08:00:00":       "2025-06-01",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}

	for _, bad := range []string{"", "06/01/2025", "2025-13-01", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNormalizeDate(t *testing.T) {
	d, err := NormalizeDate("   ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = NormalizeDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, *d)
}

func TestDateBefore(t *testing.T) {
	a := Date{Year: 2024, Month: time.December, Day: 31}
	b := Date{Year: 2025, Month: time.January, Day: 1}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestIDDecoding(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[7, "7", "a-b", null]`), &ids))
	assert.Equal(t, []ID{"7", "7", "a-b", ""}, ids)

	out, err := json.Marshal([]ID{"7", "a-b", "007"})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "a-b", "007"]`, string(out))

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestParseStatusAndPriority(t *testing.T) {
	for in, want := range map[string]Status{
		"To Do": StatusToDo, "todo": StatusToDo, "in_progress": StatusInProgress,
		"In-Progress": StatusInProgress, " DONE ": StatusDone,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("Blocked")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	p, err := ParsePriority("medium")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)
	_, err = ParsePriority("Urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTaskDecoding(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{
		"id": 12, "project_id": "3", "title": "Ship",
		"description": null, "priority": "High", "status": "In Progress",
		"due_date": "2025-06-01T00:00:00.000Z"
	}`), &task)
	require.NoError(t, err)
	assert.Equal(t, ID("12"), task.ID)
	assert.Equal(t, ID("3"), task.ProjectID)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, StatusInProgress, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-06-01", task.DueDate.String())

	for _, due := range []string{`null`, `""`} {
		var noDue Task
		require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(`{"id":1,"title":"x","priority":"Low","status":"Done","due_date":%s}`, due)), &noDue))
		assert.Nil(t, noDue.DueDate)
	}
}

func TestTaskDecodingRejectsUnknownEnums(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":1,"title":"x","priority":"Urgent","status":"To Do"}`), &task)
	assert.ErrorIs(t, err, ErrInvalidPriority)

	err = json.Unmarshal([]byte(`{"id":1,"title":"x","priority":"Low","status":"Blocked"}`), &task)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	past := &Date{Year: 2024, Month: time.January, Day: 1}
	today := &Date{Year: 2025, Month: time.January, Day: 1}

	assert.True(t, Task{Status: StatusToDo, DueDate: past}.IsOverdue(now))
	assert.True(t, Task{Status: StatusInProgress, DueDate: past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusDone, DueDate: past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusToDo, DueDate: today}.IsOverdue(now))
	assert.False(t, Task{Status: StatusToDo}.IsOverdue(now))
}

func TestSnapshotLookups(t *testing.T) {
	var empty *Snapshot
	assert.False(t, empty.Loaded())
	assert.Nil(t, empty.TasksFor("1"))

	snap := &Snapshot{
		Projects: []Project{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}},
		Tasks: []Task{
			{ID: "10", ProjectID: "1", Title: "a1"},
			{ID: "11", ProjectID: "2", Title: "b1"},
			{ID: "12", ProjectID: "1", Title: "a2"},
			{ID: "13", ProjectID: "9", Title: "orphan"},
		},
		LoadedAt: time.Now(),
	}
	assert.True(t, snap.Loaded())

	got := snap.TasksFor("1")
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].Title)
	assert.Equal(t, "a2", got[1].Title)
	assert.Nil(t, snap.TasksFor("9"))
	assert.Len(t, snap.OwnedTasks(), 3)

	p, ok := snap.Project("2")
	assert.True(t, ok)
	assert.Equal(t, "B", p.Name)
	_, ok = snap.Task("99")
	assert.False(t, ok)
}

type carrier struct{}

func (carrier) Error() string         { return "status 500" }
func (carrier) ServerMessage() string { return "db down" }

func TestErrorHelpers(t *testing.T) {
	err := MutationError(ServerReason(carrier{}), carrier{})
	assert.True(t, IsDomainError(err, ErrCodeMutation))
	assert.Equal(t, "db down", Reason(err))
	assert.Equal(t, "db down: status 500", err.Error())

	generic := MutationError("", errors.New("eof"))
	assert.Equal(t, "the change could not be saved", Reason(generic))
	assert.Equal(t, "plain", Reason(errors.New("plain")))
	assert.Equal(t, "", ServerReason(errors.New("plain")))

	wrapped := fmt.Errorf("context: %w", ErrEmptyTaskTitle)
	assert.ErrorIs(t, wrapped, ErrEmptyTaskTitle)
	assert.True(t, IsDomainError(wrapped, ErrCodeValidation))
	assert.NotErrorIs(t, ErrEmptyTaskTitle, ErrEmptyProjectName)

	denied := MutationError(Reason(ErrUnauthorized), ErrUnauthorized)
	assert.True(t, IsDomainError(denied, ErrCodeMutation))
	assert.True(t, IsDomainError(denied, ErrCodeUnauthorized))
	assert.False(t, IsDomainError(denied, ErrCodeFetch))
	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeMutation))
}
