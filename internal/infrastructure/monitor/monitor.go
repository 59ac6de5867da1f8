package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger probes the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreProbe reports the local session store's entry count.
type StoreProbe interface {
	Size() (int, error)
}

type Monitor struct {
	remote Pinger
	store  StoreProbe

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
	now      func() time.Time
}

func New(remote Pinger, store StoreProbe, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		remote:   remote,
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports the remote's reachability as of the last check. A monitor
// that has never checked assumes it is online.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.LastCheck.IsZero() || m.status.Remote
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check probes everything now and records the result.
func (m *Monitor) Check(ctx context.Context) Status {
	status := Status{LastCheck: m.now()}
	status.Remote, status.RemoteLatency, status.RemoteError = m.checkRemote(ctx)
	status.SessionStore, status.SessionEntries = m.checkStore()

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()
	wasOnline := m.IsOnline()
	status := m.Check(ctx)
	if wasOnline != status.Remote {
		m.logger.Info("remote reachability changed", zap.Bool("online", status.Remote))
	}
}

func (m *Monitor) checkRemote(ctx context.Context) (bool, time.Duration, string) {
	if m.remote == nil {
		return false, 0, "no remote configured"
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	started := m.now()
	if err := m.remote.Ping(ctx); err != nil {
		return false, 0, err.Error()
	}
	return true, m.now().Sub(started), ""
}

func (m *Monitor) checkStore() (bool, int) {
	if m.store == nil {
		return false, 0
	}
	size, err := m.store.Size()
	if err != nil {
		m.logger.Warn("session store check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
