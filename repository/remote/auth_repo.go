package remote

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type authRepository struct {
	client *Client
}

// NewAuthRepository returns the remote implementation of AuthRepository.
// Auth calls never send a bearer token, so any credentials on client are ignored.
func NewAuthRepository(client *Client) repository.AuthRepository {
	return &authRepository{client: client.WithCredentials(nil)}
}

func (r *authRepository) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	var resp transport.LoginResponse
	req := transport.LoginRequest{Email: email, Password: password}
	if err := r.client.do(ctx, fasthttp.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, domain.NewError(domain.ErrCodeAuth, "login response carried no token")
	}
	return &domain.Identity{User: resp.User, Token: resp.Token}, nil
}

func (r *authRepository) Register(ctx context.Context, name, email, password string) error {
	req := transport.RegisterRequest{Name: name, Email: email, Password: password}
	return r.client.do(ctx, fasthttp.MethodPost, "/auth/register", req, nil)
}
