package transport

import "github.com/fastygo/taskflow/domain"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProjectRequest struct {
	Name string `json:"name"`
}

// TaskRequest is the body of task create and full-record update calls.
type TaskRequest struct {
	ID          domain.ID       `json:"id,omitempty"`
	ProjectID   domain.ID       `json:"project_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	DueDate     *domain.Date    `json:"due_date"`
}

// NewTaskRequest copies every field of t so updates never drop data.
func NewTaskRequest(t domain.Task) TaskRequest {
	return TaskRequest{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
	}
}
