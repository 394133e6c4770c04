package tools

import (
	"context"
	"encoding/json"

	"github.com/i474232898/gsod-weather/internal/weather"
)

// Tool names.
const (
	ResolveCity         = "resolve_city"
	RangeWeatherSummary = "range_weather_summary"
	YearlyMaxTemp       = "yearly_max_temp"
	DailyWeatherSeries  = "daily_weather_series"
	NearestStation      = "nearest_station"
)

// WeatherService is the set of operations the weather tools dispatch to.
type WeatherService interface {
	ResolveCity(ctx context.Context, req weather.CityRequest) (weather.CityResolution, error)
	NearestStation(ctx context.Context, req weather.NearestRequest) (weather.NearestResolution, error)
	RangeSummary(ctx context.Context, req weather.RangeRequest) (weather.RangeSummary, error)
	YearlyMaxTemp(ctx context.Context, req weather.YearRequest) (weather.YearlyMax, error)
	DailySeries(ctx context.Context, req weather.SeriesRequest) (weather.Series, error)
}

var (
	stnField  = Field{Type: "string", Description: "USAF station id, e.g. 037720", Required: true}
	wbanField = Field{Type: "string", Description: "WBAN id, e.g. 99999", Required: true}
)

// RegisterWeatherTools registers the GSOD weather tools.
func RegisterWeatherTools(r *Registry, svc WeatherService) error {
	metricNames := make([]string, len(weather.Metrics))
	for i, m := range weather.Metrics {
		metricNames[i] = string(m)
	}

	tools := []Tool{
		{
			Name:        ResolveCity,
			Description: "Resolve a city into a weather station using the NOAA GSOD station list. Returns station id (stn + wban), name, country and coordinates.",
			Schema: Schema{
				"city":         {Type: "string", Description: "City name; matched case-insensitively as a substring of the station name", Required: true},
				"country_code": {Type: "string", Description: "Optional two-letter GSOD (FIPS) country code, e.g. UK"},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var req weather.CityRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return svc.ResolveCity(ctx, req)
			},
		},
		{
			Name:        NearestStation,
			Description: "Find the station nearest to a point, given lat/lon or a city to geocode.",
			Schema: Schema{
				"lat":          {Type: "number", Description: "Latitude in degrees"},
				"lon":          {Type: "number", Description: "Longitude in degrees"},
				"city":         {Type: "string", Description: "City to geocode when lat/lon are omitted"},
				"country_code": {Type: "string", Description: "Optional country code for geocoding"},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var req weather.NearestRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return svc.NearestStation(ctx, req)
			},
		},
		{
			Name:        RangeWeatherSummary,
			Description: "Summarise temperature (°C), rainfall (mm) and wind (km/h) for a station between two dates, inclusive.",
			Schema: Schema{
				"stn":        stnField,
				"wban":       wbanField,
				"start_date": {Type: "string", Description: "First day, YYYY-MM-DD", Required: true},
				"end_date":   {Type: "string", Description: "Last day, YYYY-MM-DD", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var req weather.RangeRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return svc.RangeSummary(ctx, req)
			},
		},
		{
			Name:        YearlyMaxTemp,
			Description: "Return the hottest day (maximum temperature in °C) of a year for a station.",
			Schema: Schema{
				"stn":  stnField,
				"wban": wbanField,
				"year": {Type: "integer", Description: "Calendar year, e.g. 2020", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var req weather.YearRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return svc.YearlyMaxTemp(ctx, req)
			},
		},
		{
			Name:        DailyWeatherSeries,
			Description: "Return a daily time series of the requested metrics between two dates.",
			Schema: Schema{
				"stn":        stnField,
				"wban":       wbanField,
				"start_date": {Type: "string", Description: "First day, YYYY-MM-DD", Required: true},
				"end_date":   {Type: "string", Description: "Last day, YYYY-MM-DD", Required: true},
				"metrics": {
					Type:        "array",
					Description: "Metrics to include",
					Enum:        metricNames,
					Default:     []string{string(weather.TempMeanC)},
				},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var req weather.SeriesRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return svc.DailySeries(ctx, req)
			},
		},
	}

	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
