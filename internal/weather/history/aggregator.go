package history

import (
	"context"

	"github.com/i474232898/gsod-weather/internal/weather"
)

// RangeSummary aggregates temperature, rainfall and wind for one station over
// an inclusive date range.
func (s *Service) RangeSummary(ctx context.Context, req weather.RangeRequest) (weather.RangeSummary, error) {
	if err := weather.Validate(req); err != nil {
		return weather.RangeSummary{}, err
	}
	r, err := weather.ParseDateRange(req.StartDate, req.EndDate, s.opts.MaxRangeDays)
	if err != nil {
		return weather.RangeSummary{}, err
	}

	rows, err := s.run(ctx, s.builder.RangeSummary(req.StationRef, r, s.opts.RowPolicy))
	if err != nil {
		return weather.RangeSummary{}, err
	}
	// Aggregates without GROUP BY return exactly one row; be lenient anyway.
	if len(rows) == 0 {
		return weather.RangeSummary{Found: false, Reason: weather.ReasonNoRangeData}, nil
	}

	agg, err := decodeRangeAggregate(rows[0])
	if err != nil {
		return weather.RangeSummary{}, &weather.UpstreamError{Op: "decode range summary", Err: err}
	}
	return weather.SummarizeRange(req.StationRef, r, agg), nil
}

// YearlyMaxTemp finds the hottest day of a year for one station.
func (s *Service) YearlyMaxTemp(ctx context.Context, req weather.YearRequest) (weather.YearlyMax, error) {
	if err := weather.Validate(req); err != nil {
		return weather.YearlyMax{}, err
	}

	rows, err := s.run(ctx, s.builder.YearlyMax(req.StationRef, req.Year))
	if err != nil {
		return weather.YearlyMax{}, err
	}
	if len(rows) == 0 {
		return weather.HottestDay(req.StationRef, req.Year, nil), nil
	}

	obs, err := decodeYearlyMax(rows[0])
	if err != nil {
		return weather.YearlyMax{}, &weather.UpstreamError{Op: "decode yearly max", Err: err}
	}
	return weather.HottestDay(req.StationRef, req.Year, &obs), nil
}
