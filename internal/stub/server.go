// Package stub serves an in-memory implementation of the remote task store
// for local development and tests.
package stub

import (
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// Options configures a stub server.
type Options struct {
	Name         string
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// WrapCollections answers list calls with {"projects": [...]} and
	// {"tasks": [...]} instead of bare arrays.
	WrapCollections bool
}

// Server is the stub remote store.
type Server struct {
	Store  *Store
	server *fasthttp.Server
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "taskflow-dev-secret"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	if opts.Name == "" {
		opts.Name = "taskflow-stub"
	}

	store := NewStore()
	base := baseHandler{
		store:   store,
		adapter: httpcontext.NewAdapter(5 * time.Second),
		logger:  logger,
	}
	tokens := &tokenIssuer{secret: []byte(opts.JWTSecret), issuer: opts.JWTIssuer, ttl: opts.TokenTTL}

	auth := &authHandler{baseHandler: base, tokens: tokens}
	projects := &projectHandler{baseHandler: base, wrap: opts.WrapCollections}
	tasks := &taskHandler{baseHandler: base, wrap: opts.WrapCollections}
	protect := jwtAuth(tokens, logger)

	r := router.New()
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)

	r.GET("/projects", protect(projects.List))
	r.POST("/projects", protect(projects.Create))
	r.DELETE("/projects/{id}", protect(projects.Delete))

	r.GET("/tasks/{projectId}", protect(tasks.List))
	r.POST("/tasks/{projectId}", protect(tasks.Create))
	r.PUT("/tasks/{id}", protect(tasks.Update))
	r.DELETE("/tasks/{id}", protect(tasks.Delete))

	handler := r.Handler
	counted := func(ctx *fasthttp.RequestCtx) {
		store.countRequest()
		handler(ctx)
	}

	return &Server{
		Store:  store,
		logger: logger,
		server: &fasthttp.Server{
			Handler:      counted,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
			Name:         opts.Name,
		},
	}
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("stub remote started", zap.String("address", addr))
	return s.server.ListenAndServe(addr)
}

// Serve serves on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// InMemory is a stub served over an in-process listener together with a
// client that dials it.
type InMemory struct {
	*Server
	Client  *fasthttp.Client
	BaseURL string
	ln      *fasthttputil.InmemoryListener
}

// StartInMemory serves a new stub on an in-memory listener.
func StartInMemory(opts Options, logger *zap.Logger) *InMemory {
	srv := New(opts, logger)
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = srv.Serve(ln)
	}()
	return &InMemory{
		Server: srv,
		Client: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return ln.Dial()
			},
		},
		BaseURL: "http://taskflow.stub",
		ln:      ln,
	}
}

// Close stops the server and the listener.
func (m *InMemory) Close() error {
	_ = m.ln.Close()
	return m.Shutdown()
}
