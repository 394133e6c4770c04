package weather

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = StationRef{STN: "037720", WBAN: "99999"}

func TestSummarizeRangeNoRows(t *testing.T) {
	r := YearRange(2020)
	got := SummarizeRange(testRef, r, RangeAggregate{Rows: 0, TempMean: ptr(50)})

	assert.False(t, got.Found)
	assert.Equal(t, ReasonNoRangeData, got.Reason)
	assert.Nil(t, got.Temperature)
	assert.Nil(t, got.Rainfall)
}

func TestSummarizeRangeConverts(t *testing.T) {
	r, err := ParseDateRange("2020-01-01", "2020-01-03", 0)
	require.NoError(t, err)

	got := SummarizeRange(testRef, r, RangeAggregate{
		Rows:     3,
		TempMinF: ptr(32),
		TempMaxF: ptr(212),
		TempMean: ptr(50),
		PrcpSum:  ptr(0.5),
		WdspMean: ptr(10),
	})

	require.True(t, got.Found)
	assert.Equal(t, "037720", got.STN)
	assert.Equal(t, "2020-01-03", got.EndDate)
	assert.InDelta(t, 0, *got.Temperature.MinC, 1e-9)
	assert.InDelta(t, 100, *got.Temperature.MaxC, 1e-9)
	assert.InDelta(t, 10, *got.Temperature.MeanC, 1e-9)
	assert.InDelta(t, 12.7, *got.Rainfall.TotalMM, 1e-9)
	assert.InDelta(t, 18.52, *got.Wind.MeanKmh, 1e-9)
}

func TestSummarizeRangeNullAggregatesStayNull(t *testing.T) {
	got := SummarizeRange(testRef, YearRange(2021), RangeAggregate{Rows: 2, TempMean: ptr(41)})

	require.True(t, got.Found)
	assert.Nil(t, got.Temperature.MinC)
	assert.Nil(t, got.Rainfall.TotalMM)
	assert.Nil(t, got.Wind.MeanKmh)
	assert.InDelta(t, 5, *got.Temperature.MeanC, 1e-9)
}

func TestHottestDay(t *testing.T) {
	got := HottestDay(testRef, 2020, &Observation{Date: "2020-07-14", Max: ptr(104)})
	require.True(t, got.Found)
	assert.Equal(t, "2020-07-14", got.Date)
	assert.Equal(t, 2020, got.Year)
	assert.InDelta(t, 40, *got.MaxC, 1e-9)

	none := HottestDay(testRef, 2020, nil)
	assert.False(t, none.Found)
	assert.Equal(t, ReasonNoYearData, none.Reason)

	missing := HottestDay(testRef, 2020, &Observation{Date: "2020-01-01", Max: ptr(TemperatureMissing)})
	assert.False(t, missing.Found)
}

func TestBuildSeriesSparseSortedAndDeduplicated(t *testing.T) {
	obs := []Observation{
		{Date: "2020-01-03", Temp: ptr(212), Prcp: ptr(0.1)},
		{Date: "2020-01-01", Temp: ptr(32), Prcp: ptr(99.99)},
		{Date: "2020-01-02", Temp: ptr(TemperatureMissing), Prcp: ptr(1)},
		{Date: "2020-01-01", Temp: ptr(50), Prcp: ptr(0.2)},
	}

	got := BuildSeries(obs, NewMetricSet(TempMeanC, RainMM))

	require.Len(t, got, 2)
	assert.Equal(t, "2020-01-01", got[0].Date)
	assert.InDelta(t, 0, *got[0].TempMeanC, 1e-9)
	assert.Nil(t, got[0].RainMM, "sentinel precipitation must be omitted")
	assert.Equal(t, "2020-01-03", got[1].Date)
	assert.InDelta(t, 100, *got[1].TempMeanC, 1e-9)
	assert.InDelta(t, 2.54, *got[1].RainMM, 1e-9)
}

func TestBuildSeriesOmitsUnrequestedFields(t *testing.T) {
	obs := []Observation{{Date: "2020-05-01", Temp: ptr(60), Max: ptr(70), Prcp: ptr(1), Wdsp: ptr(5)}}

	got := BuildSeries(obs, NewMetricSet(RainMM))
	require.Len(t, got, 1)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2020-05-01","rain_mm":25.4}`, string(raw))
}

func TestBuildSeriesEmpty(t *testing.T) {
	got := BuildSeries(nil, DefaultMetrics)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestErrorHelpers(t *testing.T) {
	up := &UpstreamError{Op: "range_summary", Err: errors.New("boom")}
	assert.True(t, IsUpstream(up))
	assert.False(t, IsValidation(up))
	assert.Contains(t, up.Error(), "boom")
	assert.EqualError(t, errors.Unwrap(up), "boom")

	ve := &ValidationError{Field: "year", Message: "is required"}
	assert.True(t, IsValidation(ve))
	assert.Equal(t, "invalid year: is required", ve.Error())
}
