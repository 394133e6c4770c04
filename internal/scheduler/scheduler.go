package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/observability"
)

var errNotProbed = errors.New("dataset not probed yet")

// Monitor periodically probes the dataset and reports readiness.
type Monitor struct {
	scheduler *gocron.Scheduler
	exec      dataset.Executor
	interval  time.Duration
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu        sync.RWMutex
	lastErr   error
	lastCheck time.Time
}

// New creates a Monitor. An interval of zero disables periodic probing and
// readiness is then always reported.
func New(exec dataset.Executor, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{
		scheduler: gocron.NewScheduler(time.UTC),
		exec:      exec,
		interval:  interval,
		timeout:   30 * time.Second,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		lastErr:   errNotProbed,
	}
}

// Start schedules the probe job and starts the underlying scheduler. The
// first probe runs immediately.
func (m *Monitor) Start() error {
	if m.interval <= 0 {
		m.logger.Info("scheduler: dataset probe disabled")
		return nil
	}

	_, err := m.scheduler.Every(m.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		m.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (m *Monitor) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}

// RunOnce probes the dataset and records the outcome.
func (m *Monitor) RunOnce(ctx context.Context) {
	err := dataset.Probe(ctx, m.exec)

	m.mu.Lock()
	wasErr := m.lastErr
	m.lastErr = err
	m.lastCheck = m.clock.Now()
	m.mu.Unlock()

	if m.metrics != nil {
		if err == nil {
			m.metrics.DatasetReady.Set(1)
		} else {
			m.metrics.DatasetReady.Set(0)
		}
	}

	switch {
	case err != nil:
		m.logger.Warn("scheduler: dataset probe failed", "error", err)
	case wasErr != nil:
		m.logger.Info("scheduler: dataset reachable")
	}
}

// LastCheck returns when the dataset was last probed.
func (m *Monitor) LastCheck() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastCheck
}

// CheckReadiness returns the last probe error. With probing disabled it
// always succeeds.
func (m *Monitor) CheckReadiness(context.Context) error {
	if m.interval <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}
