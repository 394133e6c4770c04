package history

import (
	"fmt"

	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/weather"
	"github.com/i474232898/gsod-weather/internal/weather/query"
)

func decodeStation(row dataset.Row) (weather.Station, error) {
	var (
		st  weather.Station
		err error
	)
	if st.STN, err = row.String("stn"); err != nil {
		return st, err
	}
	if st.WBAN, err = row.String("wban"); err != nil {
		return st, err
	}
	if st.Name, err = row.String("name"); err != nil {
		return st, err
	}
	if st.Country, err = row.String("country"); err != nil {
		return st, err
	}
	if st.Lat, err = row.Float("lat"); err != nil {
		return st, err
	}
	if st.Lon, err = row.Float("lon"); err != nil {
		return st, err
	}
	return st, nil
}

func decodeRangeAggregate(row dataset.Row) (weather.RangeAggregate, error) {
	var (
		agg weather.RangeAggregate
		err error
	)
	if agg.Rows, err = row.Int(query.ColRowCount); err != nil {
		return agg, fmt.Errorf("%s: %w", query.ColRowCount, err)
	}
	if agg.TempMinF, err = row.Float(query.ColTempMinF); err != nil {
		return agg, err
	}
	if agg.TempMaxF, err = row.Float(query.ColTempMaxF); err != nil {
		return agg, err
	}
	if agg.TempMean, err = row.Float(query.ColTempMeanF); err != nil {
		return agg, err
	}
	if agg.PrcpSum, err = row.Float(query.ColPrcpSum); err != nil {
		return agg, err
	}
	if agg.WdspMean, err = row.Float(query.ColWdspMean); err != nil {
		return agg, err
	}
	return agg, nil
}

// decodeObservation reads whichever raw columns the statement selected;
// absent columns stay nil.
func decodeObservation(row dataset.Row) (weather.Observation, error) {
	var (
		o   weather.Observation
		err error
	)
	if o.Date, err = row.String("date"); err != nil {
		return o, err
	}
	if o.Temp, err = row.Float("temp"); err != nil {
		return o, err
	}
	if o.Max, err = row.Float("max"); err != nil {
		return o, err
	}
	if o.Min, err = row.Float("min"); err != nil {
		return o, err
	}
	if o.Prcp, err = row.Float("prcp"); err != nil {
		return o, err
	}
	if o.Wdsp, err = row.Float("wdsp"); err != nil {
		return o, err
	}
	return o, nil
}

func decodeYearlyMax(row dataset.Row) (weather.Observation, error) {
	var (
		o   weather.Observation
		err error
	)
	if o.Date, err = row.String("date"); err != nil {
		return o, err
	}
	if o.Max, err = row.Float(query.ColMaxTempF); err != nil {
		return o, fmt.Errorf("%s: %w", query.ColMaxTempF, err)
	}
	return o, nil
}
