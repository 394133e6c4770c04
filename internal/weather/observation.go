package weather

// Observation is one station-day as read from the dataset, in raw GSOD units
// (°F, inches, knots) with missing encodings still in place.
type Observation struct {
	Date string
	Temp *float64
	Max  *float64
	Min  *float64
	Prcp *float64
	Wdsp *float64
}

// RangeAggregate carries the raw aggregates of a range query. Rows counts the
// rows that qualified; the other fields are nil when no valid input existed.
type RangeAggregate struct {
	Rows     int64
	TempMinF *float64
	TempMaxF *float64
	TempMean *float64
	PrcpSum  *float64
	WdspMean *float64
}
