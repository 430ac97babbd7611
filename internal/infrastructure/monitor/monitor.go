package monitor

import (
	"context"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/users/repository"
)

// Monitor probes the store and the optional cache on a cron schedule and keeps the last result.
type Monitor struct {
	store repository.Pinger
	cache redislib.UniversalClient

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// New builds a monitor. cache may be nil when caching is disabled.
func New(store repository.Pinger, cache redislib.UniversalClient, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		cache:    cache,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start runs a first probe synchronously and then schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh(context.Background())
	if _, err := m.cron.AddFunc("@every "+m.interval.String(), func() {
		m.Refresh(context.Background())
	}); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop waits for a running probe to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh probes every dependency once and records the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{
		Store:        m.checkStore(ctx),
		Cache:        m.checkCache(ctx),
		CacheEnabled: m.cache != nil,
		LastCheck:    time.Now().UTC(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.LastCheck.IsZero() || previous.Healthy() != status.Healthy() {
		m.logger.Info("dependency status changed",
			zap.Bool("healthy", status.Healthy()),
			zap.Strings("failing", status.Failing()))
	}
	return status
}

func (m *Monitor) checkStore(ctx context.Context) bool {
	if m.store == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := m.store.Ping(ctx); err != nil {
		m.logger.Warn("store ping failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkCache(ctx context.Context) bool {
	if m.cache == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.cache.Ping(ctx).Err(); err != nil {
		m.logger.Warn("cache ping failed", zap.Error(err))
		return false
	}
	return true
}
