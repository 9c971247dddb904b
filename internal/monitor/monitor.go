// Package monitor keeps a background view of server reachability by probing
// the health endpoint. It informs the CLI status display only; it never
// touches session or task state.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskgo/client/apiclient"
)

// Status is a point-in-time reachability snapshot.
type Status struct {
	Online    bool
	CheckedAt time.Time
	LastError string
}

type Monitor struct {
	api      apiclient.Client
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
	stopCh chan struct{}
	once   sync.Once
}

func New(api apiclient.Client, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		api:      api,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
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
	err := m.api.Ping(context.Background())

	m.mu.Lock()
	wasOnline := m.status.Online
	m.status = Status{
		Online:    err == nil,
		CheckedAt: time.Now(),
	}
	if err != nil {
		m.status.LastError = err.Error()
	}
	m.mu.Unlock()

	if err != nil && wasOnline {
		m.logger.Warn("server became unreachable", zap.Error(err))
	}
	if err == nil && !wasOnline {
		m.logger.Info("server reachable")
	}
}
