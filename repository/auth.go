package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// AuthRepository exchanges credentials with the remote store.
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	Register(ctx context.Context, name, email, password string) error
}

// CredentialSource yields the bearer token for authenticated calls.
type CredentialSource interface {
	Credential() (string, error)
}
