package query

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/weather"
)

var ref = weather.StationRef{STN: "037720", WBAN: "99999"}

func mustRange(t *testing.T, start, end string) weather.DateRange {
	t.Helper()
	r, err := weather.ParseDateRange(start, end, 0)
	require.NoError(t, err)
	return r
}

func TestResolveCityKeepsInputInParams(t *testing.T) {
	b := NewBuilder(SQLite())
	hostile := "x'; DROP TABLE stations; --"

	stmt := b.ResolveCity(weather.CityRequest{City: hostile, CountryCode: "UK"})

	assert.Equal(t, StmtResolveCity, stmt.Name)
	assert.NotContains(t, stmt.Text, "DROP TABLE")
	assert.Contains(t, stmt.Text, "UPPER(@city)")
	assert.Contains(t, stmt.Text, `ESCAPE '\'`)
	assert.Contains(t, stmt.Text, "country = @country")
	assert.Contains(t, stmt.Text, "ORDER BY name, stn, wban")
	assert.Equal(t, hostile, stmt.Params["city"].Value)
	assert.Equal(t, "UK", stmt.Params["country"].Value)
	assert.Equal(t, []string{"city", "country"}, stmt.ParamNames())
}

func TestResolveCityEscapesLikeMetacharacters(t *testing.T) {
	stmt := NewBuilder(Postgres()).ResolveCity(weather.CityRequest{City: "100%_sure"})

	assert.Equal(t, `100\%\_sure`, stmt.Params["city"].Value)
	assert.NotContains(t, stmt.Text, "@country")
	_, hasCountry := stmt.Params["country"]
	assert.False(t, hasCountry)
}

func TestResolveCityBigQueryAliasesUSAF(t *testing.T) {
	stmt := NewBuilder(BigQuery("", "")).ResolveCity(weather.CityRequest{City: "London"})

	assert.Contains(t, stmt.Text, "SELECT usaf AS stn, wban, name, country, lat, lon")
	assert.Contains(t, stmt.Text, "FROM `bigquery-public-data.noaa_gsod.stations`")
}

func TestRangeSummaryPolicies(t *testing.T) {
	r := mustRange(t, "2020-01-01", "2020-01-03")
	b := NewBuilder(SQLite())

	independent := b.RangeSummary(ref, r, weather.RowPolicyIndependent)
	assert.Equal(t, StmtRangeSummary, independent.Name)
	assert.Contains(t, independent.Text, "COUNT(*) AS row_count")
	assert.Contains(t, independent.Text, "SUM(CASE WHEN prcp < @prcp_missing THEN prcp END) AS prcp_sum_in")
	assert.NotContains(t, independent.Text, "AND temp != @temp_missing")
	assert.Equal(t, civil.Date{Year: 2020, Month: 1, Day: 1}, independent.Params["start_date"].Value)
	assert.Equal(t, dataset.Date, independent.Params["end_date"].Type)
	assert.Equal(t, weather.PrecipitationMissing, independent.Params["prcp_missing"].Value)

	shared := b.RangeSummary(ref, r, weather.RowPolicyShared)
	assert.Contains(t, shared.Text, "AND temp != @temp_missing")
}

func TestBigQueryShardedTables(t *testing.T) {
	b := NewBuilder(BigQuery("", ""))
	stmt := b.RangeSummary(ref, mustRange(t, "2019-12-30", "2020-01-02"), weather.RowPolicyIndependent)

	assert.Contains(t, stmt.Text, "FROM `bigquery-public-data.noaa_gsod.gsod*`")
	assert.Contains(t, stmt.Text, "_TABLE_SUFFIX BETWEEN @first_year AND @last_year")
	assert.Contains(t, stmt.Text, "SAFE_CAST(wdsp AS FLOAT64)")
	assert.Equal(t, "2019", stmt.Params["first_year"].Value)
	assert.Equal(t, "2020", stmt.Params["last_year"].Value)

	plain := NewBuilder(BigQuery("p.d.stations", "p.d.observations"))
	stmt = plain.YearlyMax(ref, 2020)
	assert.NotContains(t, stmt.Text, "_TABLE_SUFFIX")
	_, ok := stmt.Params["first_year"]
	assert.False(t, ok)
}

func TestYearlyMax(t *testing.T) {
	stmt := NewBuilder(SQLite()).YearlyMax(ref, 2020)

	assert.Equal(t, StmtYearlyMax, stmt.Name)
	assert.Contains(t, stmt.Text, "max AS max_temp_f")
	assert.Contains(t, stmt.Text, "ORDER BY max DESC, date ASC")
	assert.Equal(t, civil.Date{Year: 2020, Month: 12, Day: 31}, stmt.Params["end_date"].Value)
}

func TestDailySeriesSelectsRequestedColumns(t *testing.T) {
	r := mustRange(t, "2020-01-01", "2020-01-31")

	rainOnly := NewBuilder(SQLite()).DailySeries(ref, r, weather.NewMetricSet(weather.RainMM))
	assert.Contains(t, rainOnly.Text, "SELECT date, temp, prcp\n")

	all := NewBuilder(BigQuery("", "")).DailySeries(ref, r, weather.NewMetricSet(weather.Metrics...))
	assert.Contains(t, all.Text, "SELECT date, temp, max, min, prcp, SAFE_CAST(wdsp AS FLOAT64) AS wdsp\n")
	assert.Contains(t, all.Text, "ORDER BY date")
}

func TestNearestStation(t *testing.T) {
	stmt := NewBuilder(Postgres()).NearestStation(60, 10)

	assert.Equal(t, StmtNearestStation, stmt.Name)
	assert.Contains(t, stmt.Text, "lat IS NOT NULL AND lon IS NOT NULL")
	assert.Contains(t, stmt.Text, "LEAST(ABS(lon - @lon), 360 - ABS(lon - @lon))")
	assert.InDelta(t, 0.25, stmt.Params["lon_scale"].Value, 1e-9)
	assert.Equal(t, 60.0, stmt.Params["lat"].Value)
}

func TestNearestStationWrapsLongitudeInSQLite(t *testing.T) {
	stmt := NewBuilder(SQLite()).NearestStation(-17, 179.9)

	assert.Contains(t, stmt.Text, "MIN(ABS(lon - @lon), 360 - ABS(lon - @lon)) * MIN(ABS(lon - @lon), 360 - ABS(lon - @lon)) * @lon_scale")
	assert.NotContains(t, stmt.Text, "LEAST")
}

func TestForBackend(t *testing.T) {
	d, err := ForBackend("postgres", "", "")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)

	_, err = ForBackend("mysql", "", "")
	assert.Error(t, err)
}
