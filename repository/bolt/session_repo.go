package bolt

import (
	"context"
	"time"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/boltdb"
	"github.com/fastygo/taskflow/repository"
)

const sessionKey = "session:current"

type sessionRepository struct {
	store *boltdb.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionRepository creates a Bolt-backed session repository. Sessions
// saved without an expiry get ttl.
func NewSessionRepository(store *boltdb.Store, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &sessionRepository{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the persisted session. Expired sessions are purged and
// reported as missing.
func (r *sessionRepository) Get(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var session domain.Session
	found, err := r.store.GetJSON(sessionKey, &session)
	if err != nil {
		return nil, err
	}
	if !found || session.Token == "" {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(r.now()) {
		_ = r.store.Delete(sessionKey)
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	return r.store.PutJSON(sessionKey, session)
}

func (r *sessionRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Delete(sessionKey)
}
