// Package history answers the weather tools against the GSOD dataset: it
// validates requests, runs one statement per call and converts the results.
package history

import (
	"context"
	"log/slog"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/weather"
	"github.com/i474232898/gsod-weather/internal/weather/query"
)

// Geocoder turns a city into coordinates.
type Geocoder interface {
	Locate(ctx context.Context, city, countryCode string) (lat, lon float64, err error)
}

// Options tune request limits and aggregation.
type Options struct {
	// MaxRangeDays bounds summary and series ranges; 0 disables the check.
	MaxRangeDays int
	// RowPolicy selects which rows feed the range summary.
	RowPolicy weather.RowPolicy
}

// Service runs the weather tools. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	exec     dataset.Executor
	builder  *query.Builder
	geocoder Geocoder
	opts     Options
	logger   *slog.Logger
}

// NewService creates a Service. geocoder may be nil, in which case
// nearest-station lookups need explicit coordinates.
func NewService(exec dataset.Executor, builder *query.Builder, geocoder Geocoder, opts Options, logger *slog.Logger) *Service {
	if !opts.RowPolicy.Valid() {
		opts.RowPolicy = weather.RowPolicyIndependent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		exec:     exec,
		builder:  builder,
		geocoder: geocoder,
		opts:     opts,
		logger:   logger,
	}
}

// run executes stmt and tags any failure as upstream.
func (s *Service) run(ctx context.Context, stmt dataset.Statement) ([]dataset.Row, error) {
	rows, err := s.exec.Query(ctx, stmt)
	if err != nil {
		return nil, &weather.UpstreamError{Op: stmt.Name, Err: err}
	}
	return rows, nil
}
