package weather

// Station is a GSOD station directory entry. Lat and Lon may be unknown.
type Station struct {
	STN     string   `json:"stn"`
	WBAN    string   `json:"wban"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Ref returns the station identity.
func (s Station) Ref() StationRef {
	return StationRef{STN: s.STN, WBAN: s.WBAN}
}

// CityResolution is the result of resolve_city. Station fields are inlined
// when Found is true.
type CityResolution struct {
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
	*Station
}

// NearestResolution is the result of nearest_station.
type NearestResolution struct {
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
	*Station
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// TemperatureSummary holds range temperature aggregates in °C.
type TemperatureSummary struct {
	MinC  *float64 `json:"min_c"`
	MaxC  *float64 `json:"max_c"`
	MeanC *float64 `json:"mean_c"`
}

// RainfallSummary holds the range precipitation total in mm.
type RainfallSummary struct {
	TotalMM *float64 `json:"total_mm"`
}

// WindSummary holds the range mean wind speed in km/h.
type WindSummary struct {
	MeanKmh *float64 `json:"mean_kmh"`
}

// RangeSummary is the result of range_weather_summary.
type RangeSummary struct {
	Found       bool                `json:"found"`
	Reason      string              `json:"reason,omitempty"`
	STN         string              `json:"stn,omitempty"`
	WBAN        string              `json:"wban,omitempty"`
	StartDate   string              `json:"start_date,omitempty"`
	EndDate     string              `json:"end_date,omitempty"`
	Temperature *TemperatureSummary `json:"temperature,omitempty"`
	Rainfall    *RainfallSummary    `json:"rainfall,omitempty"`
	Wind        *WindSummary        `json:"wind,omitempty"`
}

// YearlyMax is the result of yearly_max_temp.
type YearlyMax struct {
	Found  bool     `json:"found"`
	Reason string   `json:"reason,omitempty"`
	STN    string   `json:"stn,omitempty"`
	WBAN   string   `json:"wban,omitempty"`
	Year   int      `json:"year,omitempty"`
	Date   string   `json:"date,omitempty"`
	MaxC   *float64 `json:"max_c,omitempty"`
}

// DailyPoint is one day of a series. Only requested, non-missing fields are set.
type DailyPoint struct {
	Date      string   `json:"date"`
	TempMeanC *float64 `json:"temp_mean_c,omitempty"`
	TempMaxC  *float64 `json:"temp_max_c,omitempty"`
	TempMinC  *float64 `json:"temp_min_c,omitempty"`
	RainMM    *float64 `json:"rain_mm,omitempty"`
	WindKmh   *float64 `json:"wind_kmh,omitempty"`
}

// Series is the result of daily_weather_series.
type Series struct {
	STN       string       `json:"stn"`
	WBAN      string       `json:"wban"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Metrics   []Metric     `json:"metrics"`
	Data      []DailyPoint `json:"data"`
}

// RowPolicy decides which rows feed the range summary aggregates.
type RowPolicy string

const (
	// RowPolicyIndependent filters each metric on its own missing encoding.
	RowPolicyIndependent RowPolicy = "independent"
	// RowPolicyShared drops rows with a missing mean temperature before every
	// aggregate, so rainfall and wind only count days with a valid temperature.
	RowPolicyShared RowPolicy = "shared"
)

// Valid reports whether p is a known policy.
func (p RowPolicy) Valid() bool {
	return p == RowPolicyIndependent || p == RowPolicyShared
}
