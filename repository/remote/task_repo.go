package remote

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type taskRepository struct {
	client *Client
}

// NewTaskRepository returns the remote implementation of TaskRepository.
// client must carry credentials.
func NewTaskRepository(client *Client) repository.TaskRepository {
	return &taskRepository{client: client}
}

// ListByProject fetches one project's tasks. Records that fail to decode,
// such as an unknown status, are dropped and logged. An unreadable due date
// only clears that field.
func (r *taskRepository) ListByProject(ctx context.Context, projectID domain.ID) ([]domain.Task, error) {
	var raw json.RawMessage
	if err := r.client.do(ctx, fasthttp.MethodGet, "/tasks/"+segment(projectID), nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeCollection(raw, "tasks")
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(items))
	for i, item := range items {
		t, err := decodeTask(item)
		if errors.Is(err, domain.ErrInvalidDate) {
			r.client.logger.Warn("ignoring unreadable due date",
				zap.String("project_id", projectID.String()),
				zap.Int("index", i),
				zap.Error(err))
			t, err = decodeTask(withoutField(item, "due_date"))
		}
		if err != nil {
			r.client.logger.Warn("skipping malformed task",
				zap.String("project_id", projectID.String()),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeTask(item json.RawMessage) (domain.Task, error) {
	var t domain.Task
	err := json.Unmarshal(item, &t)
	return t, err
}

func withoutField(item json.RawMessage, field string) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return item
	}
	delete(fields, field)
	out, err := json.Marshal(fields)
	if err != nil {
		return item
	}
	return out
}

func (r *taskRepository) Create(ctx context.Context, projectID domain.ID, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	body := transport.NewTaskRequest(*task)
	body.ID = ""
	body.ProjectID = ""

	var created domain.Task
	if err := r.client.do(ctx, fasthttp.MethodPost, "/tasks/"+segment(projectID), body, &created); err != nil {
		return nil, err
	}
	if created.ProjectID.IsZero() {
		created.ProjectID = projectID
	}
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID.IsZero() {
		return nil, domain.ErrInvalidPayload
	}
	var updated domain.Task
	if err := r.client.do(ctx, fasthttp.MethodPut, "/tasks/"+segment(task.ID), transport.NewTaskRequest(*task), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ErrTaskNotFound
	}
	return r.client.do(ctx, fasthttp.MethodDelete, "/tasks/"+segment(id), nil, nil)
}
