package remote

import (
	"context"
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type projectRepository struct {
	client *Client
}

// NewProjectRepository returns the remote implementation of ProjectRepository.
// client must carry credentials.
func NewProjectRepository(client *Client) repository.ProjectRepository {
	return &projectRepository{client: client}
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	var raw json.RawMessage
	if err := r.client.do(ctx, fasthttp.MethodGet, "/projects", nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeCollection(raw, "projects")
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(items))
	for i, item := range items {
		var p domain.Project
		if err := json.Unmarshal(item, &p); err != nil || p.ID.IsZero() {
			r.client.logger.Warn("skipping malformed project", zap.Int("index", i), zap.Error(err))
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, name string) (*domain.Project, error) {
	var created domain.Project
	if err := r.client.do(ctx, fasthttp.MethodPost, "/projects", transport.ProjectRequest{Name: name}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *projectRepository) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ErrProjectNotFound
	}
	return r.client.do(ctx, fasthttp.MethodDelete, "/projects/"+segment(id), nil, nil)
}
