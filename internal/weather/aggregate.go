package weather

import "sort"

// SummarizeRange converts raw range aggregates into a RangeSummary. A range
// with no qualifying rows is reported as not found and nothing is converted.
func SummarizeRange(ref StationRef, r DateRange, agg RangeAggregate) RangeSummary {
	if agg.Rows == 0 {
		return RangeSummary{Found: false, Reason: ReasonNoRangeData}
	}

	return RangeSummary{
		Found:     true,
		STN:       ref.STN,
		WBAN:      ref.WBAN,
		StartDate: r.Start.String(),
		EndDate:   r.End.String(),
		Temperature: &TemperatureSummary{
			MinC:  FahrenheitToCelsius(Filter(Temperature, agg.TempMinF)),
			MaxC:  FahrenheitToCelsius(Filter(Temperature, agg.TempMaxF)),
			MeanC: FahrenheitToCelsius(Filter(Temperature, agg.TempMean)),
		},
		Rainfall: &RainfallSummary{
			TotalMM: InchesToMillimeters(agg.PrcpSum),
		},
		Wind: &WindSummary{
			MeanKmh: KnotsToKmh(Filter(WindSpeed, agg.WdspMean)),
		},
	}
}

// HottestDay converts the top row of a yearly maximum query. A nil or missing
// maximum means the year had no usable data.
func HottestDay(ref StationRef, year int, obs *Observation) YearlyMax {
	if obs == nil || IsMissing(Temperature, obs.Max) {
		return YearlyMax{Found: false, Reason: ReasonNoYearData}
	}
	return YearlyMax{
		Found: true,
		STN:   ref.STN,
		WBAN:  ref.WBAN,
		Year:  year,
		Date:  obs.Date,
		MaxC:  FahrenheitToCelsius(obs.Max),
	}
}

// BuildSeries turns observations into sparse daily points sorted by date.
// Rows with a missing mean temperature are skipped, as are repeated dates
// after the first occurrence.
func BuildSeries(observations []Observation, metrics MetricSet) []DailyPoint {
	points := make([]DailyPoint, 0, len(observations))
	seen := make(map[string]struct{}, len(observations))

	for _, o := range observations {
		if IsMissing(Temperature, o.Temp) {
			continue
		}
		if _, dup := seen[o.Date]; dup {
			continue
		}
		seen[o.Date] = struct{}{}

		p := DailyPoint{Date: o.Date}
		if metrics.Has(TempMeanC) {
			p.TempMeanC = FahrenheitToCelsius(o.Temp)
		}
		if metrics.Has(TempMaxC) {
			p.TempMaxC = FahrenheitToCelsius(Filter(Temperature, o.Max))
		}
		if metrics.Has(TempMinC) {
			p.TempMinC = FahrenheitToCelsius(Filter(Temperature, o.Min))
		}
		if metrics.Has(RainMM) {
			p.RainMM = InchesToMillimeters(Filter(Precipitation, o.Prcp))
		}
		if metrics.Has(WindKmh) {
			p.WindKmh = KnotsToKmh(Filter(WindSpeed, o.Wdsp))
		}
		points = append(points, p)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}
