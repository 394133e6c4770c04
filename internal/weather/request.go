package weather

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := civil.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		_, ok := metricBit(Metric(strings.TrimSpace(fl.Field().String())))
		return ok
	})
	return v
}

// StationRef identifies a station by its USAF and WBAN identifiers.
type StationRef struct {
	STN  string `json:"stn" validate:"required,alphanum,max=6"`
	WBAN string `json:"wban" validate:"required,numeric,max=5"`
}

// CityRequest is the input of resolve_city.
type CityRequest struct {
	City        string `json:"city" validate:"required,max=100"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,len=2,alpha"`
}

// RangeRequest is the input of range_weather_summary.
type RangeRequest struct {
	StationRef
	StartDate string `json:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date" validate:"required,isodate"`
}

// YearRequest is the input of yearly_max_temp.
type YearRequest struct {
	StationRef
	Year int `json:"year" validate:"required,min=1,max=9999"`
}

// SeriesRequest is the input of daily_weather_series.
type SeriesRequest struct {
	RangeRequest
	Metrics []string `json:"metrics,omitempty" validate:"omitempty,dive,metric"`
}

// NearestRequest is the input of nearest_station: either coordinates or a
// city to geocode.
type NearestRequest struct {
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	City        string   `json:"city,omitempty" validate:"omitempty,max=100"`
	CountryCode string   `json:"country_code,omitempty" validate:"omitempty,len=2,alpha"`
}

// DateRange is an inclusive calendar date range with Start <= End.
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

// Days returns the number of days in the range, both ends included.
func (r DateRange) Days() int {
	return r.End.DaysSince(r.Start) + 1
}

// Normalize trims whitespace and upper-cases the country code.
func (r *CityRequest) Normalize() {
	r.City = strings.TrimSpace(r.City)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
}

// Normalize trims whitespace and upper-cases the country code.
func (r *NearestRequest) Normalize() {
	r.City = strings.TrimSpace(r.City)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
}

// Validate checks struct tags and returns the first violation as a
// *ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fieldName(fe), Message: describe(fe)}
	}
	return &ValidationError{Message: err.Error()}
}

// ParseDateRange parses ISO dates and enforces start <= end and, when maxDays
// is positive, the range length.
func ParseDateRange(start, end string, maxDays int) (DateRange, error) {
	s, err := civil.ParseDate(start)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"}
	}
	e, err := civil.ParseDate(end)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"}
	}
	if e.Before(s) {
		return DateRange{}, &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	r := DateRange{Start: s, End: e}
	if maxDays > 0 && r.Days() > maxDays {
		return DateRange{}, &ValidationError{
			Field:   "end_date",
			Message: fmt.Sprintf("range covers %d days; at most %d allowed", r.Days(), maxDays),
		}
	}
	return r, nil
}

// YearRange returns January 1st to December 31st of year.
func YearRange(year int) DateRange {
	return DateRange{
		Start: civil.Date{Year: year, Month: 1, Day: 1},
		End:   civil.Date{Year: year, Month: 12, Day: 31},
	}
}

// fieldName returns the dotted path without the top-level struct name.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	// Embedded structs contribute their Go type name to the namespace.
	parts := strings.Split(ns, ".")
	return parts[len(parts)-1]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "metric":
		return fmt.Sprintf("unknown metric %q; allowed: %s", fe.Value(), metricNames())
	case "alphanum":
		return "must be alphanumeric"
	case "numeric":
		return "must be numeric"
	case "alpha":
		return "must contain letters only"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
