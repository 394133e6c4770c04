package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/i474232898/gsod-weather/internal/common"
	"github.com/i474232898/gsod-weather/internal/observability"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// ResilienceConfig bundles retry and circuit breaker settings for a backend.
type ResilienceConfig struct {
	Name    string
	Backoff BackoffConfig
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
}

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen   = errors.New("circuit breaker open")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// transientMarkers are substrings of upstream errors worth retrying. They cover
// BigQuery job errors, Postgres/SQLite contention and plain network failures.
var transientMarkers = []string{
	"rateLimitExceeded",
	"backendError",
	"internalError",
	"jobBackendError",
	"Error 500",
	"Error 502",
	"Error 503",
	"connection reset",
	"connection refused",
	"i/o timeout",
	"database is locked",
	"SQLSTATE 40001",
	"SQLSTATE 57P03",
}

// Resilient wraps an Executor with retries, exponential backoff and a circuit
// breaker.
type Resilient struct {
	next    Executor
	cb      *gobreaker.CircuitBreaker
	backoff BackoffConfig
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResilient creates a Resilient executor around next.
func NewResilient(next Executor, cfg ResilienceConfig, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Resilient, error) {
	if cfg.Backoff.MaxRetries < 0 || (cfg.Backoff.MaxRetries > 0 && cfg.Backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	r := &Resilient{
		next:    next,
		backoff: cfg.Backoff,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
	r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller's deadline or cancellation says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("dataset circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if metrics != nil {
				metrics.BreakerState.Set(float64(to))
			}
		},
	})
	return r, nil
}

// State reports the breaker state.
func (r *Resilient) State() gobreaker.State {
	return r.cb.State()
}

// Query executes stmt, retrying transient failures with exponential backoff.
func (r *Resilient) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	var attempt int

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := r.cb.Execute(func() (interface{}, error) {
			return r.next.Query(ctx, stmt)
		})
		if err == nil {
			rows, ok := result.([]Row)
			if !ok && result != nil {
				return nil, fmt.Errorf("unexpected result type from circuit breaker: %T", result)
			}
			return rows, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		if !IsTransient(err) || attempt >= r.backoff.MaxRetries {
			return nil, err
		}

		delay := r.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > r.backoff.MaxInterval && r.backoff.MaxInterval > 0 {
			delay = r.backoff.MaxInterval
		}
		r.logger.Debug("retrying dataset statement", "statement", stmt.Name, "attempt", attempt+1, "delay", delay, "error", err)
		if r.metrics != nil {
			r.metrics.DatasetRetries.WithLabelValues(stmt.Name).Inc()
		}

		timer := r.clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.Chan():
		}

		attempt++
	}
}

// IsTransient reports whether err looks like a temporary upstream condition.
// Context cancellation and deadlines are never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return common.HasAny(err.Error(), transientMarkers...)
}
