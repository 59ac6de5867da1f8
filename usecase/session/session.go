package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// UseCase holds the current identity. It starts unresolved and settles on
// anonymous or authenticated once Restore has inspected persisted storage.
type UseCase struct {
	auth     repository.AuthRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
}

func New(auth repository.AuthRepository, sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *UseCase {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		auth:     auth,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		state:    domain.SessionUnresolved,
	}
}

// Restore inspects persisted storage. A stored token yields a minimal
// identity built from the token alone; no profile is fetched.
func (uc *UseCase) Restore(ctx context.Context) error {
	stored, err := uc.sessions.Get(ctx)
	if err != nil {
		uc.set(domain.SessionAnonymous, nil)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		uc.logger.Error("failed to read persisted session", zap.Error(err))
		return domain.WrapError(domain.ErrCodeInternal, "failed to read persisted session", err)
	}

	identity, expired := identityFromToken(stored.Token, uc.now())
	if expired {
		uc.logger.Info("persisted token expired, discarding")
		if err := uc.sessions.Delete(ctx); err != nil {
			uc.logger.Warn("failed to discard expired session", zap.Error(err))
		}
		uc.set(domain.SessionAnonymous, nil)
		return nil
	}
	if identity.ID.IsZero() {
		identity.ID = stored.User.ID
	}
	if identity.Email == "" {
		identity.Email = stored.User.Email
	}
	if identity.Name == "" {
		identity.Name = stored.User.Name
	}

	uc.set(domain.SessionAuthenticated, identity)
	return nil
}

// Login exchanges credentials for a token, persists it and publishes the
// identity. The email is normalized; the password is sent as typed.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrEmptyEmail
	}
	if password == "" {
		return nil, domain.ErrEmptyPassword
	}

	identity, err := uc.auth.Login(ctx, email, password)
	if err != nil {
		uc.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return nil, domain.AuthError(domain.ServerReason(err), err)
	}

	now := uc.now()
	if err := uc.sessions.Save(ctx, &domain.Session{
		Token:     identity.Token,
		User:      identity.User,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}); err != nil {
		uc.logger.Warn("failed to persist session", zap.Error(err))
	}

	uc.set(domain.SessionAuthenticated, identity)
	copied := *identity
	return &copied, nil
}

// Register creates an account. It never establishes a session.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) error {
	email = domain.NormalizeEmail(email)
	switch {
	case strings.TrimSpace(name) == "":
		return domain.ErrEmptyName
	case email == "":
		return domain.ErrEmptyEmail
	case password == "":
		return domain.ErrEmptyPassword
	}

	if err := uc.auth.Register(ctx, strings.TrimSpace(name), email, password); err != nil {
		uc.logger.Warn("registration failed", zap.String("email", email), zap.Error(err))
		return domain.AuthError(domain.ServerReason(err), err)
	}
	return nil
}

// Logout forgets the identity and the persisted token.
func (uc *UseCase) Logout(ctx context.Context) error {
	uc.set(domain.SessionAnonymous, nil)
	if err := uc.sessions.Delete(ctx); err != nil {
		uc.logger.Error("failed to clear persisted session", zap.Error(err))
		return err
	}
	return nil
}

func (uc *UseCase) State() domain.SessionState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

// Identity returns a copy of the current identity.
func (uc *UseCase) Identity() (domain.Identity, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.identity == nil {
		return domain.Identity{}, false
	}
	return *uc.identity, true
}

// Credential implements repository.CredentialSource.
func (uc *UseCase) Credential() (string, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	switch uc.state {
	case domain.SessionUnresolved:
		return "", domain.ErrSessionUnresolved
	case domain.SessionAuthenticated:
		return uc.identity.Token, nil
	default:
		return "", domain.ErrUnauthorized
	}
}

func (uc *UseCase) set(state domain.SessionState, identity *domain.Identity) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state
	uc.identity = identity
}

var _ repository.CredentialSource = (*UseCase)(nil)

// identityFromToken reads unverified JWT claims. Opaque tokens are kept as-is.
func identityFromToken(token string, now time.Time) (*domain.Identity, bool) {
	identity := &domain.Identity{Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return identity, false
	}
	if !claims.VerifyExpiresAt(now.Unix(), false) {
		return nil, true
	}

	for _, key := range []string{"user_id", "sub", "id"} {
		if v, ok := claims[key]; ok {
			switch id := v.(type) {
			case string:
				identity.ID = domain.ID(id)
			case float64:
				identity.ID = domain.ID(strconv.FormatFloat(id, 'f', -1, 64))
			}
			if !identity.ID.IsZero() {
				break
			}
		}
	}
	identity.Email, _ = claims["email"].(string)
	identity.Name, _ = claims["name"].(string)
	return identity, false
}
