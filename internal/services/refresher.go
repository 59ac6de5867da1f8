package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// Loader reloads the client's snapshot.
type Loader interface {
	LoadAll(ctx context.Context) error
}

// RefresherConfig controls how often the snapshot is reloaded.
type RefresherConfig struct {
	Interval time.Duration
	// OnRefresh, when set, runs after every attempted reload with its result.
	OnRefresh func(err error)
}

// Refresher reloads the snapshot on a schedule. A reload that is still
// running when the next tick fires makes that tick a no-op.
type Refresher struct {
	loader  Loader
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RefresherConfig
}

// NewRefresher schedules loader every cfg.Interval, rounded to whole seconds.
// A zero interval means 30s and anything under a second becomes one second.
func NewRefresher(loader Loader, monitor ConnectionHealth, logger *zap.Logger, cfg RefresherConfig) *Refresher {
	switch {
	case cfg.Interval <= 0:
		cfg.Interval = 30 * time.Second
	case cfg.Interval < time.Second:
		// cron schedules have one-second resolution
		cfg.Interval = time.Second
	default:
		cfg.Interval = cfg.Interval.Round(time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Refresher{
		loader:  loader,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		_ = r.Refresh(ctx)
	})

	return r
}

// Start launches the cron scheduler.
func (r *Refresher) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("refresher started", zap.Duration("interval", r.cfg.Interval))
}

// Stop waits for a running reload to finish or for ctx to expire.
func (r *Refresher) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("refresher stopped")
}

// Refresh reloads once, unless the monitor reports the remote offline.
func (r *Refresher) Refresh(ctx context.Context) error {
	if r == nil || r.loader == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping refresh (offline)")
		return nil
	}
	err := r.loader.LoadAll(ctx)
	if err != nil {
		r.logger.Error("refresh failed", zap.Error(err))
	}
	if r.cfg.OnRefresh != nil {
		r.cfg.OnRefresh(err)
	}
	return err
}
