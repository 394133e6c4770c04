// Package query builds parameterised dataset statements for the weather tools.
// Caller input only ever travels as bind parameters.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/i474232898/gsod-weather/internal/common"
	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/weather"
)

// Statement names, used as log and metric labels.
const (
	StmtResolveCity    = "resolve_city"
	StmtNearestStation = "nearest_station"
	StmtRangeSummary   = "range_summary"
	StmtYearlyMax      = "yearly_max"
	StmtDailySeries    = "daily_series"
)

// Result column names.
const (
	ColRowCount  = "row_count"
	ColTempMinF  = "temp_min_f"
	ColTempMaxF  = "temp_max_f"
	ColTempMeanF = "temp_mean_f"
	ColPrcpSum   = "prcp_sum_in"
	ColWdspMean  = "wdsp_mean_kn"
	ColMaxTempF  = "max_temp_f"
)

// Builder emits statements for one dialect.
type Builder struct {
	d Dialect
}

// NewBuilder creates a Builder for d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{d: d}
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() Dialect {
	return b.d
}

// ResolveCity finds the alphabetically first station whose name contains
// city, case-insensitively, optionally restricted to a country code.
func (b *Builder) ResolveCity(req weather.CityRequest) dataset.Statement {
	params := map[string]dataset.Param{
		"city": str(common.EscapeLike(req.City)),
	}

	var sb strings.Builder
	b.selectStation(&sb)
	fmt.Fprintf(&sb, "WHERE UPPER(name) LIKE '%%' || UPPER(@city) || '%%'%s\n", b.d.LikeEscape)
	if req.CountryCode != "" {
		sb.WriteString("  AND country = @country\n")
		params["country"] = str(req.CountryCode)
	}
	sb.WriteString("ORDER BY name, stn, wban\nLIMIT 1")

	return dataset.Statement{Name: StmtResolveCity, Text: sb.String(), Params: params}
}

// NearestStation orders stations by an equirectangular distance to
// (lat, lon) and returns the closest one with known coordinates.
func (b *Builder) NearestStation(lat, lon float64) dataset.Statement {
	cos := math.Cos(lat * math.Pi / 180)

	var sb strings.Builder
	b.selectStation(&sb)
	sb.WriteString("WHERE lat IS NOT NULL AND lon IS NOT NULL\n")
	fmt.Fprintf(&sb, "ORDER BY (lat - @lat) * (lat - @lat) + %[1]s * %[1]s * @lon_scale, name\n", b.d.LonDeltaExpr)
	sb.WriteString("LIMIT 1")

	return dataset.Statement{
		Name: StmtNearestStation,
		Text: sb.String(),
		Params: map[string]dataset.Param{
			"lat":       f64(lat),
			"lon":       f64(lon),
			"lon_scale": f64(cos * cos),
		},
	}
}

// RangeSummary aggregates one station over a date range. Every aggregate
// ignores missing encodings on its own column; with RowPolicyShared, rows
// with a missing mean temperature are dropped entirely.
func (b *Builder) RangeSummary(ref weather.StationRef, r weather.DateRange, policy weather.RowPolicy) dataset.Statement {
	params := b.stationRangeParams(ref, r)
	params["temp_missing"] = f64(weather.TemperatureMissing)
	params["prcp_missing"] = f64(weather.PrecipitationMissing)
	params["wdsp_missing"] = f64(weather.WindSpeedMissing)

	var sb strings.Builder
	sb.WriteString("SELECT\n")
	fmt.Fprintf(&sb, "  COUNT(*) AS %s,\n", ColRowCount)
	fmt.Fprintf(&sb, "  MIN(CASE WHEN temp != @temp_missing THEN temp END) AS %s,\n", ColTempMinF)
	fmt.Fprintf(&sb, "  MAX(CASE WHEN temp != @temp_missing THEN temp END) AS %s,\n", ColTempMaxF)
	fmt.Fprintf(&sb, "  AVG(CASE WHEN temp != @temp_missing THEN temp END) AS %s,\n", ColTempMeanF)
	fmt.Fprintf(&sb, "  SUM(CASE WHEN prcp < @prcp_missing THEN prcp END) AS %s,\n", ColPrcpSum)
	fmt.Fprintf(&sb, "  AVG(CASE WHEN %[1]s < @wdsp_missing THEN %[1]s END) AS %[2]s\n", b.d.WindExpr, ColWdspMean)
	fmt.Fprintf(&sb, "FROM %s\n", b.d.ObservationsTable)
	b.stationRangeWhere(&sb)
	if policy == weather.RowPolicyShared {
		sb.WriteString("\n  AND temp != @temp_missing")
	}

	return dataset.Statement{Name: StmtRangeSummary, Text: sb.String(), Params: params}
}

// YearlyMax selects the day with the highest valid maximum temperature in
// year. Ties go to the earliest date.
func (b *Builder) YearlyMax(ref weather.StationRef, year int) dataset.Statement {
	params := b.stationRangeParams(ref, weather.YearRange(year))
	params["temp_missing"] = f64(weather.TemperatureMissing)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT date, max AS %s\n", ColMaxTempF)
	fmt.Fprintf(&sb, "FROM %s\n", b.d.ObservationsTable)
	b.stationRangeWhere(&sb)
	sb.WriteString("\n  AND max != @temp_missing\n")
	sb.WriteString("ORDER BY max DESC, date ASC\nLIMIT 1")

	return dataset.Statement{Name: StmtYearlyMax, Text: sb.String(), Params: params}
}

// DailySeries selects the rows of a station range that have a valid mean
// temperature, with only the raw columns the requested metrics need.
func (b *Builder) DailySeries(ref weather.StationRef, r weather.DateRange, metrics weather.MetricSet) dataset.Statement {
	params := b.stationRangeParams(ref, r)
	params["temp_missing"] = f64(weather.TemperatureMissing)

	cols := []string{"date", "temp"}
	if metrics.Has(weather.TempMaxC) {
		cols = append(cols, "max")
	}
	if metrics.Has(weather.TempMinC) {
		cols = append(cols, "min")
	}
	if metrics.Has(weather.RainMM) {
		cols = append(cols, "prcp")
	}
	if metrics.Has(weather.WindKmh) {
		if b.d.WindExpr == "wdsp" {
			cols = append(cols, "wdsp")
		} else {
			cols = append(cols, b.d.WindExpr+" AS wdsp")
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s\n", strings.Join(cols, ", "))
	fmt.Fprintf(&sb, "FROM %s\n", b.d.ObservationsTable)
	b.stationRangeWhere(&sb)
	sb.WriteString("\n  AND temp != @temp_missing\n")
	sb.WriteString("ORDER BY date")

	return dataset.Statement{Name: StmtDailySeries, Text: sb.String(), Params: params}
}

func (b *Builder) selectStation(sb *strings.Builder) {
	id := b.d.StationIDColumn
	if id != "stn" {
		id += " AS stn"
	}
	fmt.Fprintf(sb, "SELECT %s, wban, name, country, lat, lon\n", id)
	fmt.Fprintf(sb, "FROM %s\n", b.d.StationsTable)
}

func (b *Builder) stationRangeParams(ref weather.StationRef, r weather.DateRange) map[string]dataset.Param {
	params := map[string]dataset.Param{
		"stn":        str(ref.STN),
		"wban":       str(ref.WBAN),
		"start_date": dateParam(r.Start),
		"end_date":   dateParam(r.End),
	}
	if b.d.YearSharded {
		params["first_year"] = str(strconv.Itoa(r.Start.Year))
		params["last_year"] = str(strconv.Itoa(r.End.Year))
	}
	return params
}

func (b *Builder) stationRangeWhere(sb *strings.Builder) {
	sb.WriteString("WHERE stn = @stn\n")
	sb.WriteString("  AND wban = @wban\n")
	sb.WriteString("  AND date BETWEEN @start_date AND @end_date")
	if b.d.YearSharded {
		sb.WriteString("\n  AND _TABLE_SUFFIX BETWEEN @first_year AND @last_year")
	}
}

func str(v string) dataset.Param {
	return dataset.Param{Type: dataset.String, Value: v}
}

func f64(v float64) dataset.Param {
	return dataset.Param{Type: dataset.Float64, Value: v}
}

func dateParam(d civil.Date) dataset.Param {
	return dataset.Param{Type: dataset.Date, Value: d}
}
