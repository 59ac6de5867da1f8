package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// TaskRepository is the remote task collection, scoped per project.
type TaskRepository interface {
	ListByProject(ctx context.Context, projectID domain.ID) ([]domain.Task, error)
	Create(ctx context.Context, projectID domain.ID, task *domain.Task) (*domain.Task, error)
	// Update writes the full record, not a partial patch.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id domain.ID) error
}
