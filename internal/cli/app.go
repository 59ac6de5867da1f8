package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/boltdb"
	"github.com/fastygo/taskflow/internal/infrastructure/httpclient"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/repository/bolt"
	"github.com/fastygo/taskflow/repository/remote"
	"github.com/fastygo/taskflow/usecase/session"
	"github.com/fastygo/taskflow/usecase/workspace"
)

// Options carries the process environment into the command tree. Zero
// values mean the real process streams, configuration and HTTP client.
type Options struct {
	Config *config.Config
	Doer   remote.Doer
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// app holds the wired client for the duration of one command.
type app struct {
	opts Options

	output    string
	apiURL    string
	verbose   bool
	assumeYes bool

	cfg      *config.Config
	logger   *zap.Logger
	manager  *lifecycle.Manager
	store    *boltdb.Store
	client   *remote.Client
	sessions *session.UseCase
	engine   *workspace.Engine
	monitor  *monitor.Monitor
	in       *bufio.Reader
}

func (a *app) setup(ctx context.Context) error {
	cfg := a.opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.apiURL != "" {
		copied := *cfg
		copied.API.BaseURL = strings.TrimRight(a.apiURL, "/")
		cfg = &copied
	}
	a.cfg = cfg

	level := cfg.Logger.Level
	if a.verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(logger.Config{Level: level, Encoding: cfg.Logger.Encoding, Output: a.opts.Stderr})
	if err != nil {
		return err
	}
	a.logger = zapLogger
	a.manager = lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	a.manager.Register("logger", func(context.Context) error {
		_ = zapLogger.Sync()
		return nil
	})

	store, err := boltdb.Open(cfg.Session.Path, "session")
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, fmt.Sprintf("cannot open session store %s", cfg.Session.Path), err)
	}
	a.store = store
	a.manager.RegisterCloser("session_store", store)

	doer := a.opts.Doer
	if doer == nil {
		doer = httpclient.New(cfg.AppName, cfg.API)
	}
	a.client = remote.NewClient(doer, cfg.API.BaseURL, cfg.API.RequestTimeout, zapLogger)

	a.sessions = session.New(
		remote.NewAuthRepository(a.client),
		bolt.NewSessionRepository(store, cfg.Session.TTL),
		cfg.Session.TTL,
		zapLogger,
	)
	authed := a.client.WithCredentials(a.sessions)
	a.engine = workspace.New(
		remote.NewProjectRepository(authed),
		remote.NewTaskRepository(authed),
		zapLogger,
		workspace.Config{FetchConcurrency: cfg.Sync.FetchConcurrency, Confirm: a.confirm},
	)
	a.monitor = monitor.New(a.client, store, cfg.Sync.RefreshInterval, zapLogger)
	a.in = bufio.NewReader(a.opts.Stdin)

	return a.sessions.Restore(ctx)
}

func (a *app) teardown(ctx context.Context) error {
	if a.manager == nil {
		return nil
	}
	return a.manager.Shutdown(ctx)
}

// requireLogin fails unless a session was restored or established.
func (a *app) requireLogin() error {
	if a.sessions.State() != domain.SessionAuthenticated {
		return domain.WrapError(domain.ErrCodeUnauthorized, "not logged in, run `taskflow login` first", domain.ErrUnauthorized)
	}
	return nil
}

// load refreshes the snapshot for commands that read it.
func (a *app) load(ctx context.Context) (*domain.Snapshot, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	if err := a.engine.LoadAll(ctx); err != nil {
		return nil, err
	}
	return a.engine.Snapshot(), nil
}

func (a *app) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(a.opts.Stderr, "%s [y/N]: ", prompt)
	answer, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ask reads one line, prompting on stderr when fallback is empty.
func (a *app) ask(label, fallback string) string {
	if fallback != "" {
		return fallback
	}
	fmt.Fprintf(a.opts.Stderr, "%s: ", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// resolveProject accepts a project id or an exact, case-insensitive name.
func resolveProject(snapshot *domain.Snapshot, ref string) (domain.Project, error) {
	if p, ok := snapshot.Project(domain.ID(ref)); ok {
		return p, nil
	}
	var match *domain.Project
	for i, p := range snapshot.Projects {
		if strings.EqualFold(p.Name, ref) {
			if match != nil {
				return domain.Project{}, domain.ValidationError(fmt.Sprintf("more than one project is named %q, use its id", ref))
			}
			match = &snapshot.Projects[i]
		}
	}
	if match == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return *match, nil
}
