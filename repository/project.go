package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

type ProjectRepository interface {
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, name string) (*domain.Project, error)
	// Delete removes the project and, remotely, every task it owns.
	Delete(ctx context.Context, id domain.ID) error
}
