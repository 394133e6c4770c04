package dataset

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/gsod-weather/internal/observability"
)

// Instrumented logs and records metrics for every statement it forwards.
type Instrumented struct {
	next    Executor
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// Instrument wraps next with statement logging and Prometheus metrics.
func Instrument(next Executor, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Instrumented {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Instrumented{next: next, logger: logger, metrics: metrics, clock: clock}
}

// Query forwards stmt and records its outcome.
func (i *Instrumented) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	start := i.clock.Now()
	rows, err := i.next.Query(ctx, stmt)
	elapsed := i.clock.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if i.metrics != nil {
		i.metrics.DatasetQueries.WithLabelValues(stmt.Name, status).Inc()
		i.metrics.DatasetQueryDuration.WithLabelValues(stmt.Name).Observe(elapsed.Seconds())
		if err == nil {
			i.metrics.DatasetRows.WithLabelValues(stmt.Name).Observe(float64(len(rows)))
		}
	}

	if err != nil {
		i.logger.Error("dataset statement failed",
			"statement", stmt.Name,
			"params", stmt.ParamNames(),
			"duration", elapsed.Round(time.Millisecond),
			"error", err,
		)
		return nil, err
	}
	i.logger.Debug("dataset statement",
		"statement", stmt.Name,
		"params", stmt.ParamNames(),
		"rows", len(rows),
		"duration", elapsed.Round(time.Millisecond),
	)
	return rows, nil
}
