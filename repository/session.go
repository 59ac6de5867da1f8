package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// SessionRepository persists the login across process restarts.
type SessionRepository interface {
	Get(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context) error
}
