package history

import (
	"context"

	"github.com/i474232898/gsod-weather/internal/weather"
)

// DailySeries returns per-day values of the requested metrics, sparse and in
// ascending date order.
func (s *Service) DailySeries(ctx context.Context, req weather.SeriesRequest) (weather.Series, error) {
	if err := weather.Validate(req); err != nil {
		return weather.Series{}, err
	}
	metrics, err := weather.ParseMetrics(req.Metrics)
	if err != nil {
		return weather.Series{}, err
	}
	r, err := weather.ParseDateRange(req.StartDate, req.EndDate, s.opts.MaxRangeDays)
	if err != nil {
		return weather.Series{}, err
	}

	rows, err := s.run(ctx, s.builder.DailySeries(req.StationRef, r, metrics))
	if err != nil {
		return weather.Series{}, err
	}

	observations := make([]weather.Observation, 0, len(rows))
	for _, row := range rows {
		o, err := decodeObservation(row)
		if err != nil {
			return weather.Series{}, &weather.UpstreamError{Op: "decode series", Err: err}
		}
		observations = append(observations, o)
	}

	return weather.Series{
		STN:       req.STN,
		WBAN:      req.WBAN,
		StartDate: r.Start.String(),
		EndDate:   r.End.String(),
		Metrics:   metrics.List(),
		Data:      weather.BuildSeries(observations, metrics),
	}, nil
}
