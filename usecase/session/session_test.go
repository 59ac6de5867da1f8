package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

type serverErr struct{ msg string }

func (e serverErr) Error() string         { return "remote: " + e.msg }
func (e serverErr) ServerMessage() string { return e.msg }

type fakeAuth struct {
	email, password string
	name            string
	loginCalls      int
	registerCalls   int
	err             error
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*domain.Identity, error) {
	f.loginCalls++
	f.email, f.password = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Identity{User: domain.User{ID: "7", Email: email}, Token: "tok-7"}, nil
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) error {
	f.registerCalls++
	f.name, f.email, f.password = name, email, password
	return f.err
}

type memSessions struct {
	session *domain.Session
	deletes int
}

func (m *memSessions) Get(context.Context) (*domain.Session, error) {
	if m.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	copied := *m.session
	return &copied, nil
}

func (m *memSessions) Save(_ context.Context, s *domain.Session) error {
	copied := *s
	m.session = &copied
	return nil
}

func (m *memSessions) Delete(context.Context) error {
	m.deletes++
	m.session = nil
	return nil
}

func newUseCase() (*UseCase, *fakeAuth, *memSessions) {
	auth := &fakeAuth{}
	store := &memSessions{}
	return New(auth, store, 0, nil), auth, store
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestUnresolvedUntilRestore(t *testing.T) {
	uc, _, _ := newUseCase()

	assert.Equal(t, domain.SessionUnresolved, uc.State())
	_, err := uc.Credential()
	assert.ErrorIs(t, err, domain.ErrSessionUnresolved)

	require.NoError(t, uc.Restore(context.Background()))
	assert.Equal(t, domain.SessionAnonymous, uc.State())
	_, err = uc.Credential()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email and persists a seven day token", func(t *testing.T) {
		uc, auth, store := newUseCase()
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return now }

		identity, err := uc.Login(ctx, "  Alice@Example.COM ", " PaSs ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", auth.email)
		assert.Equal(t, " PaSs ", auth.password)
		assert.Equal(t, "tok-7", identity.Token)

		require.NotNil(t, store.session)
		assert.Equal(t, "tok-7", store.session.Token)
		assert.Equal(t, now.Add(7*24*time.Hour), store.session.ExpiresAt)

		assert.Equal(t, domain.SessionAuthenticated, uc.State())
		token, err := uc.Credential()
		require.NoError(t, err)
		assert.Equal(t, "tok-7", token)
	})

	t.Run("surfaces the server message", func(t *testing.T) {
		uc, auth, store := newUseCase()
		auth.err = serverErr{msg: "Invalid credentials"}

		_, err := uc.Login(ctx, "a@b.c", "x")
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeAuth))
		assert.Equal(t, "Invalid credentials", domain.Reason(err))
		assert.Nil(t, store.session)
	})

	t.Run("generic message without server reason", func(t *testing.T) {
		uc, auth, _ := newUseCase()
		auth.err = errors.New("connection refused")

		_, err := uc.Login(ctx, "a@b.c", "x")
		assert.Equal(t, "authentication failed", domain.Reason(err))
	})

	t.Run("blank email is rejected locally", func(t *testing.T) {
		uc, auth, _ := newUseCase()
		_, err := uc.Login(ctx, "   ", "x")
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
		assert.Zero(t, auth.loginCalls)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		uc, auth, _ := newUseCase()
		err := uc.Register(ctx, " ", "a@b.c", "pw")
		assert.ErrorIs(t, err, domain.ErrEmptyName)
		assert.Zero(t, auth.registerCalls)
	})

	t.Run("does not establish a session", func(t *testing.T) {
		uc, auth, store := newUseCase()
		require.NoError(t, uc.Restore(ctx))

		require.NoError(t, uc.Register(ctx, "Alice", " ALICE@example.com", "pw"))
		assert.Equal(t, "alice@example.com", auth.email)
		assert.Equal(t, domain.SessionAnonymous, uc.State())
		assert.Nil(t, store.session)
	})

	t.Run("surfaces the server message", func(t *testing.T) {
		uc, auth, _ := newUseCase()
		auth.err = serverErr{msg: "User already exists"}
		err := uc.Register(ctx, "Alice", "a@b.c", "pw")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeAuth))
		assert.Equal(t, "User already exists", domain.Reason(err))
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	uc, _, store := newUseCase()
	_, err := uc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx))
	assert.Equal(t, domain.SessionAnonymous, uc.State())
	assert.Nil(t, store.session)
	_, ok := uc.Identity()
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("opaque token gives a minimal identity", func(t *testing.T) {
		uc, _, store := newUseCase()
		store.session = &domain.Session{Token: "opaque-token", ExpiresAt: time.Now().Add(time.Hour)}

		require.NoError(t, uc.Restore(ctx))
		identity, ok := uc.Identity()
		require.True(t, ok)
		assert.Equal(t, "opaque-token", identity.Token)
		assert.Equal(t, domain.SessionAuthenticated, uc.State())
	})

	t.Run("jwt claims fill the identity", func(t *testing.T) {
		uc, _, store := newUseCase()
		token := signed(t, jwt.MapClaims{
			"user_id": "42",
			"email":   "bob@example.com",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		store.session = &domain.Session{Token: token}

		require.NoError(t, uc.Restore(ctx))
		identity, ok := uc.Identity()
		require.True(t, ok)
		assert.Equal(t, domain.ID("42"), identity.ID)
		assert.Equal(t, "bob@example.com", identity.Email)
	})

	t.Run("expired jwt is discarded", func(t *testing.T) {
		uc, _, store := newUseCase()
		store.session = &domain.Session{Token: signed(t, jwt.MapClaims{
			"user_id": "42",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})}

		require.NoError(t, uc.Restore(ctx))
		assert.Equal(t, domain.SessionAnonymous, uc.State())
		assert.Equal(t, 1, store.deletes)
	})
}
